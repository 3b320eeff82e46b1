package agent

import (
	"context"
	"errors"
	"slices"
	"sync"

	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/event"
	"github.com/kbukum/sessionkit/logger"
	"github.com/kbukum/sessionkit/validation"
)

var (
	// ErrJoinInProgress is returned by Join while another join is in flight.
	ErrJoinInProgress = errors.New("agent: join already in progress")
	// ErrNotJoined is returned by sends outside the Joined state.
	ErrNotJoined = errors.New("agent: not joined to a session")

	errClosed = errors.New("agent closed")
)

// Handlers receive agent updates. Any of them may be nil. They run on the
// agent's goroutines and must not block.
type Handlers struct {
	OnState    func(State)
	OnRoster   func([]event.Member)
	OnChat     func(event.ChatMessage)
	OnProgress func(event.ProgressUpdate)
	OnError    func(error)
}

// Agent joins one session at a time on behalf of a user.
type Agent struct {
	cfg      Config
	lc       Lifecycle
	dialer   Dialer
	handlers Handlers
	log      *logger.Logger

	mu        sync.Mutex
	state     State
	sessionID string
	roster    []event.Member
	conn      Conn
	gen       uint64
	pending   chan error
}

// Option configures an Agent.
type Option func(*Agent)

// WithDialer replaces the WebSocket dialer.
func WithDialer(d Dialer) Option {
	return func(a *Agent) { a.dialer = d }
}

// WithHandlers installs UI callbacks.
func WithHandlers(h Handlers) Option {
	return func(a *Agent) { a.handlers = h }
}

// WithLogger sets the agent logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Agent) { a.log = l }
}

// New creates an idle agent.
func New(cfg Config, lc Lifecycle, opts ...Option) (*Agent, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Agent{cfg: cfg, lc: lc, dialer: WebSocketDialer{}}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.WithComponent("agent")
	}
	a.log = a.log.WithFields(logger.Fields(logger.FieldParticipantID, cfg.ParticipantID))
	return a, nil
}

// Identity returns who the agent joins as.
func (a *Agent) Identity() Identity {
	return Identity{ParticipantID: a.cfg.ParticipantID, DisplayName: a.cfg.DisplayName}
}

// State returns the current state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// SessionID returns the session the agent last joined or is joining.
func (a *Agent) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

// Roster returns a copy of the local roster.
func (a *Agent) Roster() []event.Member {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.roster)
}

// Create asks the server for a new session code. It does not join it.
func (a *Agent) Create(ctx context.Context) (string, error) {
	out, err := a.lc.Create(ctx)
	if err != nil {
		return "", asAppError("create", err)
	}
	return out.SessionID, nil
}

// Join verifies input (a code or share link), opens the channel and joins.
// It returns once the server's roster snapshot has arrived. On failure the
// agent is back in Idle and the error is an *errors.AppError.
func (a *Agent) Join(ctx context.Context, input string) error {
	code := CodeFromInput(input)
	if code == "" {
		return apperrors.MissingField("session code")
	}

	a.mu.Lock()
	if a.state.busy() {
		a.mu.Unlock()
		return ErrJoinInProgress
	}
	a.detachLocked()
	gen := a.gen
	a.sessionID = code
	a.roster = nil
	a.state = StateVerifying
	a.mu.Unlock()
	a.notifyState(StateVerifying)

	vctx, cancel := context.WithTimeout(ctx, a.cfg.VerifyTimeout)
	_, err := a.lc.Verify(vctx, code)
	cancel()
	if err != nil {
		return a.fail(gen, "verify", err)
	}

	if !a.advance(gen, StateJoining) {
		return apperrors.TransportFailure("join", errClosed)
	}
	if err := a.connect(ctx, gen, code); err != nil {
		return a.fail(gen, "join", err)
	}

	a.log.WithSession(code).Info("joined session", logger.Fields("participants", len(a.Roster())))
	a.refreshRoster(ctx, gen, code)
	return nil
}

func (a *Agent) connect(ctx context.Context, gen uint64, code string) error {
	url, err := webSocketURL(a.cfg.ServerURL)
	if err != nil {
		return apperrors.Validation("invalid server url: " + err.Error())
	}

	dctx, cancel := context.WithTimeout(ctx, a.cfg.JoinTimeout)
	defer cancel()

	conn, err := a.dialer.Dial(dctx, url)
	if err != nil {
		return apperrors.TransportFailure("join", err)
	}

	wait := make(chan error, 1)
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		_ = conn.Close()
		return apperrors.TransportFailure("join", errClosed)
	}
	a.conn = conn
	a.pending = wait
	a.mu.Unlock()
	go a.readLoop(gen, conn)

	data, err := event.Encode(event.New(event.Join{
		SessionID:     code,
		ParticipantID: a.cfg.ParticipantID,
		DisplayName:   a.cfg.DisplayName,
	}))
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := conn.WriteMessage(data); err != nil {
		return apperrors.TransportFailure("join", err)
	}

	select {
	case err := <-wait:
		return err
	case <-dctx.Done():
		return apperrors.TransportFailure("join", dctx.Err())
	}
}

// refreshRoster fetches the roster over HTTP once the channel is up. A failure
// only leaves the pushed roster in place.
func (a *Agent) refreshRoster(ctx context.Context, gen uint64, code string) {
	out, err := a.lc.Roster(ctx, code)
	if err != nil {
		a.log.Warn("roster fetch failed", logger.ErrorFields("roster", err))
		return
	}
	a.applyRoster(gen, out.Participants, false)
}

// SendChat sends text to the other participants.
func (a *Agent) SendChat(text string) error {
	return a.send(event.ChatMessage{Text: text})
}

// SendProgress broadcasts a progress update.
func (a *Agent) SendProgress(stage string, value float64, status string) error {
	return a.send(event.ProgressUpdate{Stage: stage, Value: value, Status: status})
}

func (a *Agent) send(p event.Payload) error {
	a.mu.Lock()
	if a.state != StateJoined {
		a.mu.Unlock()
		return ErrNotJoined
	}
	conn, code := a.conn, a.sessionID
	a.mu.Unlock()

	switch v := p.(type) {
	case event.ChatMessage:
		v.SessionID, v.ParticipantID, v.DisplayName = code, a.cfg.ParticipantID, a.cfg.DisplayName
		p = v
	case event.ProgressUpdate:
		v.SessionID, v.DisplayName = code, a.cfg.DisplayName
		p = v
	}
	if err := validation.Validate(p); err != nil {
		return err
	}
	data, err := event.Encode(event.New(p))
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := conn.WriteMessage(data); err != nil {
		return apperrors.TransportFailure("send", err)
	}
	return nil
}

// Close leaves the session and returns the agent to Idle.
func (a *Agent) Close() error {
	a.mu.Lock()
	a.detachLocked()
	changed := a.state != StateIdle
	a.state = StateIdle
	a.mu.Unlock()
	if changed {
		a.notifyState(StateIdle)
	}
	return nil
}

func (a *Agent) readLoop(gen uint64, conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			a.lost(gen, err)
			return
		}
		ev, err := event.Decode(data)
		if err != nil {
			a.log.Warn("dropping malformed event", logger.ErrorFields("decode", err))
			continue
		}
		a.handle(gen, ev)
	}
}

func (a *Agent) handle(gen uint64, ev event.Event) {
	switch p := ev.Payload().(type) {
	case event.RosterSnapshot:
		a.applyRoster(gen, p.Participants, true)
	case event.RosterChanged:
		a.applyRoster(gen, p.Participants, false)
	case event.ChatMessage:
		if a.current(gen) && a.handlers.OnChat != nil {
			a.handlers.OnChat(p)
		}
	case event.ProgressUpdate:
		if a.current(gen) && a.handlers.OnProgress != nil {
			a.handlers.OnProgress(p)
		}
	case event.Error:
		a.serverError(gen, p.Message)
	}
}

// applyRoster replaces the local roster wholesale. A snapshot received while
// joining completes the join.
func (a *Agent) applyRoster(gen uint64, members []event.Member, snapshot bool) {
	a.mu.Lock()
	if gen != a.gen || a.conn == nil {
		a.mu.Unlock()
		return
	}
	a.roster = slices.Clone(members)
	if a.roster == nil {
		a.roster = []event.Member{}
	}
	roster := slices.Clone(a.roster)
	joined := snapshot && a.state == StateJoining
	if joined {
		a.state = StateJoined
		a.resolvePendingLocked(nil)
	}
	a.mu.Unlock()

	if joined {
		a.notifyState(StateJoined)
	}
	if a.handlers.OnRoster != nil {
		a.handlers.OnRoster(roster)
	}
}

func (a *Agent) serverError(gen uint64, message string) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	var err *apperrors.AppError
	if message == event.MessageSessionNotFound {
		err = apperrors.SessionNotFound(a.sessionID)
	} else {
		err = apperrors.ProtocolViolation(message)
	}
	joining := a.pending != nil
	a.resolvePendingLocked(err)
	a.mu.Unlock()

	if !joining && a.handlers.OnError != nil {
		a.handlers.OnError(err)
	}
}

// lost handles the channel closing underneath the agent.
func (a *Agent) lost(gen uint64, cause error) {
	a.mu.Lock()
	if gen != a.gen || a.conn == nil {
		a.mu.Unlock()
		return
	}
	err := apperrors.TransportFailure("channel", cause)
	_ = a.conn.Close()
	a.conn = nil
	if a.pending != nil {
		a.resolvePendingLocked(err)
		a.mu.Unlock()
		return
	}
	a.state = StateDisconnected
	a.mu.Unlock()

	a.log.Warn("channel lost", logger.ErrorFields("channel", cause))
	a.notifyState(StateDisconnected)
	if a.handlers.OnError != nil {
		a.handlers.OnError(err)
	}
}

// fail tears down a half-finished join and returns to Idle, unless Close or
// another Join has already taken over.
func (a *Agent) fail(gen uint64, op string, err error) error {
	appErr := asAppError(op, err)

	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return appErr
	}
	a.detachLocked()
	a.state = StateIdle
	code := a.sessionID
	a.mu.Unlock()
	a.notifyState(StateIdle)

	a.log.WithSession(code).Info("join failed", logger.Fields(
		logger.FieldOperation, op,
		logger.FieldError, appErr.Error(),
	))
	return appErr
}

// detachLocked drops the current channel so its reader's events are ignored
// and releases a waiting Join.
func (a *Agent) detachLocked() {
	a.gen++
	a.resolvePendingLocked(apperrors.TransportFailure("join", errClosed))
	if a.conn != nil {
		_ = a.conn.Close()
		a.conn = nil
	}
}

func (a *Agent) resolvePendingLocked(err error) {
	if a.pending == nil {
		return
	}
	a.pending <- err
	a.pending = nil
}

// advance moves to s if gen is still the active join.
func (a *Agent) advance(gen uint64, s State) bool {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return false
	}
	a.state = s
	a.mu.Unlock()
	a.notifyState(s)
	return true
}

func (a *Agent) notifyState(s State) {
	a.log.Debug("state changed", logger.Fields("state", s.String()))
	if a.handlers.OnState != nil {
		a.handlers.OnState(s)
	}
}

func (a *Agent) current(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return gen == a.gen
}

// asAppError keeps AppErrors as they are; anything else that reached this far
// is a transport problem.
func asAppError(op string, err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	return apperrors.TransportFailure(op, err)
}
