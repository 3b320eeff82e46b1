package session

import (
	"context"
	"fmt"

	"github.com/kbukum/sessionkit/component"
)

// Component exposes the registry to the component lifecycle for health and
// startup reporting, and to tests as a resettable fixture.
type Component struct {
	reg *Registry
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps reg.
func NewComponent(reg *Registry) *Component {
	return &Component{reg: reg}
}

// Registry returns the wrapped registry.
func (c *Component) Registry() *Registry { return c.reg }

func (c *Component) Name() string                    { return "session-registry" }
func (c *Component) Start(ctx context.Context) error { return nil }
func (c *Component) Stop(ctx context.Context) error  { return nil }

func (c *Component) Health(ctx context.Context) component.Health {
	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
		Details: map[string]any{
			"sessions":     c.reg.Count(),
			"participants": c.reg.Participants(),
		},
	}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Session Registry",
		Type:    "in-memory",
		Details: fmt.Sprintf("code length %d", c.reg.codeLength),
	}
}

func (c *Component) Reset(ctx context.Context) error {
	c.reg.Reset()
	return nil
}

func (c *Component) Snapshot(ctx context.Context) (interface{}, error) {
	return c.reg.captureState(), nil
}

func (c *Component) Restore(ctx context.Context, snapshot interface{}) error {
	st, ok := snapshot.(registryState)
	if !ok {
		return fmt.Errorf("session: unexpected snapshot type %T", snapshot)
	}
	c.reg.restoreState(st)
	return nil
}
