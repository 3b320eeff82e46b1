package agent

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionkit/event"
	"github.com/kbukum/sessionkit/gateway"
	"github.com/kbukum/sessionkit/httpclient"
	"github.com/kbukum/sessionkit/lifecycle"
	"github.com/kbukum/sessionkit/logger"
	"github.com/kbukum/sessionkit/session"
)

// stack is a real gateway and lifecycle API behind an httptest server.
type stack struct {
	srv *httptest.Server
	reg *session.Registry
	gw  *gateway.Gateway
	lc  *HTTPLifecycle
}

func newStack(t *testing.T, codes ...string) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := []session.Option{session.WithLogger(logger.Nop())}
	if len(codes) > 0 {
		i := 0
		opts = append(opts, session.WithCodeGenerator(func(int) string {
			c := codes[i%len(codes)]
			i++
			return c
		}))
	}
	reg := session.NewRegistry(opts...)
	gw := gateway.New(reg, gateway.WithLogger(logger.Nop()))

	engine := gin.New()
	lifecycle.NewHandler(lifecycle.NewService(reg, nil, logger.Nop())).RegisterRoutes(engine)
	gw.RegisterRoutes(engine)
	srv := httptest.NewServer(engine)

	lc, err := NewHTTPLifecycle(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		gw.Shutdown(context.Background())
		srv.Close()
	})
	return &stack{srv: srv, reg: reg, gw: gw, lc: lc}
}

// recorder collects handler callbacks.
type recorder struct {
	mu       sync.Mutex
	states   []State
	chats    chan event.ChatMessage
	progress chan event.ProgressUpdate
	errs     chan error
	rosters  chan []event.Member
}

func newRecorder() *recorder {
	return &recorder{
		chats:    make(chan event.ChatMessage, 16),
		progress: make(chan event.ProgressUpdate, 16),
		errs:     make(chan error, 16),
		rosters:  make(chan []event.Member, 64),
	}
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		OnState: func(s State) {
			r.mu.Lock()
			r.states = append(r.states, s)
			r.mu.Unlock()
		},
		OnRoster:   func(m []event.Member) { r.rosters <- m },
		OnChat:     func(m event.ChatMessage) { r.chats <- m },
		OnProgress: func(p event.ProgressUpdate) { r.progress <- p },
		OnError:    func(err error) { r.errs <- err },
	}
}

func (r *recorder) seen() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func (s *stack) agent(t *testing.T, id, name string, rec *recorder) *Agent {
	t.Helper()
	opts := []Option{WithLogger(logger.Nop())}
	if rec != nil {
		opts = append(opts, WithHandlers(rec.handlers()))
	}
	a, err := New(Config{ServerURL: s.srv.URL, ParticipantID: id, DisplayName: name}, s.lc, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// fakeLifecycle scripts the lifecycle API.
type fakeLifecycle struct {
	verify func(ctx context.Context, code string) (lifecycle.Verified, error)
	roster func(ctx context.Context, code string) (lifecycle.Roster, error)
}

func (f *fakeLifecycle) Create(context.Context) (lifecycle.Created, error) {
	return lifecycle.Created{SessionID: "AB12"}, nil
}

func (f *fakeLifecycle) Verify(ctx context.Context, code string) (lifecycle.Verified, error) {
	if f.verify == nil {
		return lifecycle.Verified{SessionID: code}, nil
	}
	return f.verify(ctx, code)
}

func (f *fakeLifecycle) Roster(ctx context.Context, code string) (lifecycle.Roster, error) {
	if f.roster == nil {
		return lifecycle.Roster{}, errors.New("roster unavailable")
	}
	return f.roster(ctx, code)
}

var errFakeClosed = errors.New("fake conn closed")

// fakeConn is an in-memory Conn; the test plays the server.
type fakeConn struct {
	in     chan []byte
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case data := <-c.in:
		return data, nil
	case <-c.closed:
		return nil, errFakeClosed
	}
}

func (c *fakeConn) WriteMessage(data []byte) error {
	select {
	case <-c.closed:
		return errFakeClosed
	case c.out <- data:
		return nil
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) push(t *testing.T, p event.Payload) {
	t.Helper()
	data, err := event.Encode(event.New(p))
	if err != nil {
		t.Fatal(err)
	}
	c.in <- data
}

type fakeDialer struct {
	conn  *fakeConn
	err   error
	dials atomic.Int32
}

func (d *fakeDialer) Dial(context.Context, string) (Conn, error) {
	d.dials.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}
