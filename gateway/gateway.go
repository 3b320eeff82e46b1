package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"

	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/event"
	"github.com/kbukum/sessionkit/logger"
	"github.com/kbukum/sessionkit/observability"
	"github.com/kbukum/sessionkit/resilience"
	"github.com/kbukum/sessionkit/session"
	"github.com/kbukum/sessionkit/util"
)

// ErrGatewayClosed is returned by Accept after Shutdown.
var ErrGatewayClosed = errors.New("gateway: shut down")

// binding is the gateway's record of one accepted channel.
type binding struct {
	ch      Channel
	limiter *resilience.RateLimiter

	sessionID     string
	participantID string
	displayName   string
	observer      bool
}

func (b *binding) bound() bool { return b.sessionID != "" }

// Gateway keeps one binding per live channel and turns inbound events into
// registry changes and broadcasts.
type Gateway struct {
	reg     *session.Registry
	router  *Router
	cfg     Config
	metrics *observability.SessionMetrics
	log     *logger.Logger
	now     func() time.Time

	mu        sync.RWMutex
	channels  map[string]*binding
	bySession map[string]map[string]*binding
	closed    bool
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithConfig sets transport and limit configuration.
func WithConfig(cfg Config) Option {
	return func(g *Gateway) { g.cfg = cfg }
}

// WithMetrics records gateway instruments on m.
func WithMetrics(m *observability.SessionMetrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithLogger sets the gateway logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// WithClock replaces time.Now for chat timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// New creates a gateway over reg.
func New(reg *session.Registry, opts ...Option) *Gateway {
	g := &Gateway{
		reg:       reg,
		now:       time.Now,
		channels:  make(map[string]*binding),
		bySession: make(map[string]map[string]*binding),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cfg.ApplyDefaults()
	if g.log == nil {
		g.log = logger.WithComponent("gateway")
	}
	g.router = NewRouter(g.members, func(ch Channel, _ error) { g.Disconnect(context.Background(), ch) }, g.metrics, g.log)
	return g
}

// Router returns the gateway's broadcast router.
func (g *Gateway) Router() *Router { return g.router }

// Accept registers ch as an open, unbound channel.
func (g *Gateway) Accept(ctx context.Context, ch Channel) error {
	limiterCfg := g.cfg.RateLimit
	limiterCfg.Name = ch.ID()

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrGatewayClosed
	}
	g.channels[ch.ID()] = &binding{ch: ch, limiter: resilience.NewRateLimiter(limiterCfg)}
	g.mu.Unlock()

	g.metrics.ChannelOpened(ctx, ch.Transport())
	g.log.Debug("channel accepted", map[string]interface{}{
		logger.FieldChannelID: ch.ID(),
		"transport":           ch.Transport(),
	})
	return nil
}

// Dispatch handles one inbound event from ch. The returned error is a
// PROTOCOL_VIOLATION for events the gateway refuses; the channel stays open
// either way.
func (g *Gateway) Dispatch(ctx context.Context, ch Channel, ev event.Event) error {
	g.mu.RLock()
	b, ok := g.channels[ch.ID()]
	var snap binding
	if ok {
		snap = *b
	}
	g.mu.RUnlock()

	if !ok {
		return g.violation(ctx, ch, apperrors.ProtocolViolation("channel is not registered"))
	}
	if !ev.Type().ClientOriginated() {
		return g.violation(ctx, ch, apperrors.ProtocolViolation("clients may not send "+string(ev.Type())+" events"))
	}
	if !snap.limiter.Allow() {
		return g.violation(ctx, ch, apperrors.ProtocolViolation("rate limit exceeded"))
	}

	switch p := ev.Payload().(type) {
	case event.Join:
		return g.join(ctx, ch, p)
	case event.ChatMessage:
		if !snap.bound() || snap.observer {
			return g.violation(ctx, ch, apperrors.ProtocolViolation("chat-message sent before join"))
		}
		if p.Text = util.SanitizeText(p.Text); p.Text == "" {
			return g.violation(ctx, ch, apperrors.ProtocolViolation("empty chat-message"))
		}
		p.SessionID = snap.sessionID
		p.ParticipantID = snap.participantID
		p.DisplayName = snap.displayName
		if p.Timestamp.IsZero() {
			p.Timestamp = g.now().UTC()
		}
		g.router.Emit(ctx, snap.sessionID, event.New(p), ch.ID())
		return nil
	case event.ProgressUpdate:
		if !snap.bound() || snap.observer {
			return g.violation(ctx, ch, apperrors.ProtocolViolation("progress-update sent before join"))
		}
		if p.Stage = util.SanitizeString(p.Stage); p.Stage == "" {
			return g.violation(ctx, ch, apperrors.ProtocolViolation("empty progress-update stage"))
		}
		p.Status = util.SanitizeString(p.Status)
		p.SessionID = snap.sessionID
		p.DisplayName = snap.displayName
		g.router.Emit(ctx, snap.sessionID, event.New(p), ch.ID())
		return nil
	default:
		return g.violation(ctx, ch, apperrors.ProtocolViolation("unsupported event"))
	}
}

func (g *Gateway) join(ctx context.Context, ch Channel, j event.Join) error {
	sid := session.NormalizeID(j.SessionID)
	pid := j.ParticipantID
	if pid == "" || util.SanitizeString(pid) != pid {
		return g.violation(ctx, ch, apperrors.ProtocolViolation("join carries an invalid participant id"))
	}
	name := util.DisplayName(j.DisplayName, pid)
	log := g.log.WithFields(logger.ChannelFields(ch.ID(), sid, pid))

	if !g.reg.Exists(sid) {
		g.metrics.Join(ctx, "not_found")
		log.Info("join to unknown session")
		_ = g.router.Send(ctx, ch, event.New(event.Error{Message: event.MessageSessionNotFound}))
		return nil
	}

	// Leave any previous binding of this channel, and take over the
	// (session, participant) pair from a stale channel.
	g.mu.Lock()
	b, ok := g.channels[ch.ID()]
	if !ok {
		g.mu.Unlock()
		return nil
	}
	prev := *b
	if b.bound() && (b.sessionID != sid || b.participantID != pid || b.observer) {
		g.unbindLocked(b)
	} else {
		prev = binding{}
	}
	for _, other := range g.bySession[sid] {
		if other.ch.ID() != ch.ID() && !other.observer && other.participantID == pid {
			g.unbindLocked(other)
		}
	}
	g.mu.Unlock()

	if prev.bound() && !prev.observer {
		g.release(ctx, ch, prev)
	}

	roster, err := g.reg.AddParticipant(sid, session.Participant{ID: pid, DisplayName: name, ChannelID: ch.ID()})
	if err != nil {
		g.metrics.Join(ctx, "not_found")
		_ = g.router.Send(ctx, ch, event.New(event.Error{Message: event.MessageSessionNotFound}))
		return nil
	}

	g.mu.Lock()
	b, ok = g.channels[ch.ID()]
	if ok {
		b.sessionID, b.participantID, b.displayName, b.observer = sid, pid, name, false
		g.indexLocked(b)
	}
	g.mu.Unlock()
	if !ok {
		// Dropped while joining.
		g.release(ctx, ch, binding{sessionID: sid, participantID: pid, displayName: name})
		return nil
	}

	g.metrics.Join(ctx, "ok")
	log.Info("participant joined", logger.Fields("participants", len(roster)))

	members := Members(roster)
	g.router.Emit(ctx, sid, event.New(event.RosterChanged{
		Participants: members,
		TotalCount:   len(members),
		DisplayName:  name,
		Change:       event.ChangeJoined,
	}), "")
	_ = g.router.Send(ctx, ch, event.New(event.RosterSnapshot{Participants: members}))
	return nil
}

// Observe binds ch to sessionID as a read-only watcher: it receives every
// broadcast of the session but is not part of its roster. The current roster
// is sent first.
func (g *Gateway) Observe(ctx context.Context, ch Channel, sessionID string) error {
	sid := session.NormalizeID(sessionID)
	roster, err := g.reg.Snapshot(sid)
	if err != nil {
		return err
	}
	if err := g.Accept(ctx, ch); err != nil {
		return err
	}

	g.mu.Lock()
	b, ok := g.channels[ch.ID()]
	if !ok {
		g.mu.Unlock()
		return ErrGatewayClosed
	}
	b.sessionID, b.observer = sid, true
	g.indexLocked(b)
	g.mu.Unlock()

	return g.router.Send(ctx, ch, event.New(event.RosterSnapshot{Participants: Members(roster)}))
}

// Disconnect forgets ch, closes it, and, if it was a participant's current
// channel, removes that participant and tells the rest of the session.
// Calling it again for the same channel is a no-op.
func (g *Gateway) Disconnect(ctx context.Context, ch Channel) {
	g.mu.Lock()
	b, ok := g.channels[ch.ID()]
	if !ok {
		g.mu.Unlock()
		return
	}
	prev := *b
	g.unbindLocked(b)
	delete(g.channels, ch.ID())
	g.mu.Unlock()

	_ = ch.Close()
	g.metrics.ChannelClosed(ctx, ch.Transport())
	g.log.Debug("channel closed", logger.ChannelFields(ch.ID(), prev.sessionID, prev.participantID))

	if prev.bound() && !prev.observer {
		g.release(ctx, ch, prev)
	}
}

// release removes the participant bound through ch and broadcasts the
// departure when it actually happened.
func (g *Gateway) release(ctx context.Context, ch Channel, b binding) {
	roster, removed, err := g.reg.ReleaseChannel(b.sessionID, b.participantID, ch.ID())
	if err != nil || !removed {
		return
	}
	g.log.Info("participant left", logger.ChannelFields(ch.ID(), b.sessionID, b.participantID))
	members := Members(roster)
	g.router.Emit(ctx, b.sessionID, event.New(event.RosterChanged{
		Participants: members,
		TotalCount:   len(members),
		DisplayName:  b.displayName,
		Change:       event.ChangeLeft,
	}), "")
}

// Shutdown refuses new channels and closes every open one. Participants are
// released without broadcasts since every recipient is closing too.
func (g *Gateway) Shutdown(ctx context.Context) {
	g.mu.Lock()
	g.closed = true
	all := lo.Values(g.channels)
	g.channels = make(map[string]*binding)
	g.bySession = make(map[string]map[string]*binding)
	g.mu.Unlock()

	for _, b := range all {
		_ = b.ch.Close()
		g.metrics.ChannelClosed(ctx, b.ch.Transport())
		if b.bound() && !b.observer {
			_, _, _ = g.reg.ReleaseChannel(b.sessionID, b.participantID, b.ch.ID())
		}
	}
	if len(all) > 0 {
		g.log.Info("gateway shut down", logger.Fields("channels", len(all)))
	}
}

// Stats reports open channels and sessions with at least one bound channel.
func (g *Gateway) Stats() (channels, sessions int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.channels), len(g.bySession)
}

// members snapshots the channels bound to sessionID.
func (g *Gateway) members(sessionID string) []Channel {
	g.mu.RLock()
	defer g.mu.RUnlock()
	bound := g.bySession[sessionID]
	out := make([]Channel, 0, len(bound))
	for _, b := range bound {
		out = append(out, b.ch)
	}
	return out
}

func (g *Gateway) indexLocked(b *binding) {
	set, ok := g.bySession[b.sessionID]
	if !ok {
		set = make(map[string]*binding)
		g.bySession[b.sessionID] = set
	}
	set[b.ch.ID()] = b
}

func (g *Gateway) unbindLocked(b *binding) {
	if !b.bound() {
		return
	}
	if set, ok := g.bySession[b.sessionID]; ok {
		delete(set, b.ch.ID())
		if len(set) == 0 {
			delete(g.bySession, b.sessionID)
		}
	}
	b.sessionID, b.participantID, b.displayName, b.observer = "", "", "", false
}

func (g *Gateway) violation(ctx context.Context, ch Channel, err *apperrors.AppError) error {
	g.metrics.ProtocolViolation(ctx)
	g.log.Warn("protocol violation", map[string]interface{}{
		logger.FieldChannelID: ch.ID(),
		logger.FieldError:     err.Message,
	})
	return err
}

// Members converts a roster to its wire form.
func Members(roster []session.Participant) []event.Member {
	return lo.Map(roster, func(p session.Participant, _ int) event.Member {
		return event.Member{ParticipantID: p.ID, DisplayName: p.DisplayName}
	})
}
