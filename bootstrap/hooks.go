package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback that runs during startup or shutdown.
type Hook func(ctx context.Context) error

// OnReady registers hooks that run once the ready check has passed.
func (a *App[C]) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers hooks that run before components are stopped, such as
// closing every live channel before the HTTP listener goes away.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
