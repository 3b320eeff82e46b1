package testutil

import (
	"context"
	"testing"
	"time"
)

// THelper binds component helpers to a testing.T.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps t. Components set up through it are stopped by t.Cleanup.
//
//	func TestJoin(t *testing.T) {
//	    reg := session.NewComponent(session.NewRegistry())
//	    testutil.T(t).Setup(reg)
//	}
func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets the context passed to lifecycle calls.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts c and registers its Stop with t.Cleanup.
func (h *THelper) Setup(c TestComponent) {
	h.t.Helper()
	if err := c.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", c.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}

func (h *THelper) Reset(c TestComponent) {
	h.t.Helper()
	if err := c.Reset(h.ctx); err != nil {
		h.t.Fatalf("failed to reset component %s: %v", c.Name(), err)
	}
}

func (h *THelper) Snapshot(c TestComponent) interface{} {
	h.t.Helper()
	snap, err := c.Snapshot(h.ctx)
	if err != nil {
		h.t.Fatalf("failed to snapshot component %s: %v", c.Name(), err)
	}
	return snap
}

func (h *THelper) Restore(c TestComponent, snapshot interface{}) {
	h.t.Helper()
	if err := c.Restore(h.ctx, snapshot); err != nil {
		h.t.Fatalf("failed to restore component %s: %v", c.Name(), err)
	}
}

// Eventually polls cond every 10ms until it returns true or timeout elapses,
// then fails the test with msg. Used where delivery crosses goroutines.
func Eventually(t testing.TB, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s: %s", timeout, msg)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Receive waits up to timeout for a value on ch.
func Receive[T any](t testing.TB, ch <-chan T, timeout time.Duration) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(timeout):
		var zero T
		t.Fatalf("nothing received within %s", timeout)
		return zero
	}
}

// NoReceive fails if a value arrives on ch within wait.
func NoReceive[T any](t testing.TB, ch <-chan T, wait time.Duration) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected value received: %v", v)
	case <-time.After(wait):
	}
}
