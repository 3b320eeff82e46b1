package gateway

import (
	"context"
	"fmt"

	"github.com/kbukum/sessionkit/component"
)

// Component ties the gateway to the application lifecycle. Stop closes every
// open channel; register it after the HTTP server so it stops first.
type Component struct {
	gw *Gateway
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

func NewComponent(gw *Gateway) *Component {
	return &Component{gw: gw}
}

func (c *Component) Name() string { return "gateway" }

func (c *Component) Start(ctx context.Context) error { return nil }

func (c *Component) Stop(ctx context.Context) error {
	c.gw.Shutdown(ctx)
	return nil
}

func (c *Component) Health(ctx context.Context) component.Health {
	channels, sessions := c.gw.Stats()
	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
		Details: map[string]any{
			"channels":        channels,
			"active_sessions": sessions,
		},
	}
}

func (c *Component) Describe() component.Description {
	cfg := c.gw.cfg
	return component.Description{
		Name:    "Connection Gateway",
		Type:    "websocket+sse",
		Details: fmt.Sprintf("GET /ws, GET /api/session/:id/watch (rate %.0f/s burst %d)", cfg.RateLimit.Rate, cfg.RateLimit.Burst),
	}
}
