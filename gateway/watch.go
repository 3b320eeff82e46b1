package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/sessionkit/sse"
)

const transportWatch = "watch"

// watchChannel is a read-only Channel backed by an SSE stream.
type watchChannel struct {
	stream *sse.Stream
}

func (c *watchChannel) ID() string        { return c.stream.ID() }
func (c *watchChannel) Transport() string { return transportWatch }

func (c *watchChannel) Send(f Frame) error {
	err := c.stream.Send(sse.Frame{Event: string(f.Type), Data: f.Data})
	switch {
	case errors.Is(err, sse.ErrClosed):
		return ErrChannelClosed
	case errors.Is(err, sse.ErrFull):
		return ErrChannelFull
	}
	return err
}

func (c *watchChannel) Close() error {
	c.stream.Close()
	return nil
}

// ServeWatch streams every broadcast of sessionID as Server-Sent Events,
// starting with the current roster. It returns an error, before anything is
// written, when the session does not exist.
func (g *Gateway) ServeWatch(w http.ResponseWriter, r *http.Request, sessionID string) error {
	ch := &watchChannel{stream: sse.NewStream(uuid.NewString(), g.cfg.SendBuffer)}
	ctx := context.WithoutCancel(r.Context())
	if err := g.Observe(ctx, ch, sessionID); err != nil {
		return err
	}
	defer g.Disconnect(ctx, ch)

	return sse.Serve(w, r, ch.stream, sse.ServeOptions{
		KeepAlive: g.cfg.WatchKeepAlive,
		Log:       g.log,
	})
}
