package gateway

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kbukum/sessionkit/event"
	"github.com/kbukum/sessionkit/logger"
)

const transportWS = "ws"

// wsChannel is a Channel over a gorilla WebSocket. Outbound frames go through
// a bounded queue drained by writePump.
type wsChannel struct {
	id     string
	conn   *websocket.Conn
	frames chan Frame
	done   chan struct{}
	once   sync.Once
}

func newWSChannel(conn *websocket.Conn, buffer int) *wsChannel {
	return &wsChannel{
		id:     uuid.NewString(),
		conn:   conn,
		frames: make(chan Frame, buffer),
		done:   make(chan struct{}),
	}
}

func (c *wsChannel) ID() string        { return c.id }
func (c *wsChannel) Transport() string { return transportWS }

func (c *wsChannel) Send(f Frame) error {
	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}
	select {
	case c.frames <- f:
		return nil
	case <-c.done:
		return ErrChannelClosed
	default:
		return ErrChannelFull
	}
}

// Close stops the write pump, which sends a close frame and closes the conn.
func (c *wsChannel) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (g *Gateway) upgrader() *websocket.Upgrader {
	origins := g.cfg.AllowedOrigins
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(origins) == 0 || slices.Contains(origins, "*") {
				return true
			}
			return slices.Contains(origins, origin)
		},
	}
}

// ServeWS upgrades the request and runs the channel until the client goes
// away. The channel starts unbound; the client must send join.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		g.log.Debug("websocket upgrade failed", logger.ErrorFields("upgrade", err))
		return
	}

	ch := newWSChannel(conn, g.cfg.SendBuffer)
	ctx := context.WithoutCancel(r.Context())
	if err := g.Accept(ctx, ch); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(g.cfg.WriteWait))
		_ = conn.Close()
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		g.writePump(ch)
	}()

	g.readPump(ctx, ch)
	g.Disconnect(ctx, ch)
	<-writerDone
}

func (g *Gateway) readPump(ctx context.Context, ch *wsChannel) {
	conn := ch.conn
	conn.SetReadLimit(g.cfg.ReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(g.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(g.cfg.PongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				g.log.Debug("websocket read error", map[string]interface{}{
					logger.FieldChannelID: ch.id,
					logger.FieldError:     err.Error(),
				})
			}
			return
		}
		// Any inbound frame also proves liveness.
		_ = conn.SetReadDeadline(time.Now().Add(g.cfg.PongWait))

		ev, err := event.Decode(msg)
		if err != nil {
			g.metrics.ProtocolViolation(ctx)
			g.log.Warn("protocol violation", map[string]interface{}{
				logger.FieldChannelID: ch.id,
				logger.FieldError:     err.Error(),
			})
			continue
		}
		// Violations are logged by Dispatch; the channel stays open.
		_ = g.Dispatch(ctx, ch, ev)
	}
}

func (g *Gateway) writePump(ch *wsChannel) {
	conn := ch.conn
	ticker := time.NewTicker(g.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case f := <-ch.frames:
			_ = conn.SetWriteDeadline(time.Now().Add(g.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, f.Data); err != nil {
				_ = ch.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(g.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = ch.Close()
				return
			}
		case <-ch.done:
			g.flush(ch)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(g.cfg.WriteWait))
			return
		}
	}
}

// flush writes frames still queued when the channel was closed, so an error
// sent right before Close still reaches the client.
func (g *Gateway) flush(ch *wsChannel) {
	for {
		select {
		case f := <-ch.frames:
			_ = ch.conn.SetWriteDeadline(time.Now().Add(g.cfg.WriteWait))
			if err := ch.conn.WriteMessage(websocket.TextMessage, f.Data); err != nil {
				return
			}
		default:
			return
		}
	}
}
