package testutil

import (
	"context"

	"github.com/kbukum/sessionkit/component"
)

// TestComponent is a component whose state can be reset and rolled back
// between test cases. The session registry component implements it.
type TestComponent interface {
	component.Component

	// Reset returns the component to its empty state.
	Reset(ctx context.Context) error

	// Snapshot captures state for a later Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore rolls back to a value returned by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}
