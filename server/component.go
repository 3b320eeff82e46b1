package server

import (
	"context"
	"fmt"

	"github.com/kbukum/sessionkit/component"
)

const componentName = "http-server"

var (
	_ component.Component   = (*ServerComponent)(nil)
	_ component.Describable = (*ServerComponent)(nil)
)

// ServerComponent adapts Server to the component lifecycle.
type ServerComponent struct {
	server  *Server
	started bool
}

// NewComponent wraps s.
func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{server: s}
}

func (sc *ServerComponent) Name() string { return componentName }

func (sc *ServerComponent) Start(ctx context.Context) error {
	if err := sc.server.Start(ctx); err != nil {
		return err
	}
	sc.started = true
	return nil
}

func (sc *ServerComponent) Stop(ctx context.Context) error {
	if !sc.started {
		return nil
	}
	sc.started = false
	return sc.server.Stop(ctx)
}

func (sc *ServerComponent) Health(ctx context.Context) component.Health {
	if !sc.started {
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "not listening"}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy, Message: sc.server.Addr()}
}

func (sc *ServerComponent) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s (%d routes)", sc.server.config.Addr(), len(sc.server.engine.Routes())),
	}
}
