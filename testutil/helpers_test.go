package testutil_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/sessionkit/component"
	"github.com/kbukum/sessionkit/testutil"
)

type counterComponent struct {
	started, stopped bool
	value            int
	startErr         error
}

func (c *counterComponent) Name() string                { return "counter" }
func (c *counterComponent) Start(context.Context) error { c.started = true; return c.startErr }
func (c *counterComponent) Stop(context.Context) error  { c.stopped = true; return nil }
func (c *counterComponent) Health(context.Context) component.Health {
	return component.Health{Name: "counter", Status: component.StatusHealthy}
}
func (c *counterComponent) Reset(context.Context) error { c.value = 0; return nil }
func (c *counterComponent) Snapshot(context.Context) (interface{}, error) {
	return c.value, nil
}
func (c *counterComponent) Restore(_ context.Context, s interface{}) error {
	v, ok := s.(int)
	if !ok {
		return errors.New("bad snapshot")
	}
	c.value = v
	return nil
}

func TestSetupRegistersCleanup(t *testing.T) {
	c := &counterComponent{}
	t.Run("inner", func(t *testing.T) {
		testutil.T(t).Setup(c)
		if !c.started {
			t.Fatal("expected component started")
		}
	})
	if !c.stopped {
		t.Error("expected component stopped after subtest cleanup")
	}
}

func TestResetSnapshotRestore(t *testing.T) {
	c := &counterComponent{}
	h := testutil.T(t)
	h.Setup(c)

	c.value = 3
	snap := h.Snapshot(c)
	c.value = 9
	h.Restore(c, snap)
	if c.value != 3 {
		t.Errorf("value = %d after restore, want 3", c.value)
	}
	h.Reset(c)
	if c.value != 0 {
		t.Errorf("value = %d after reset, want 0", c.value)
	}
}

func TestEventually(t *testing.T) {
	var n atomic.Int32
	go func() {
		time.Sleep(20 * time.Millisecond)
		n.Store(1)
	}()
	testutil.Eventually(t, time.Second, func() bool { return n.Load() == 1 }, "flag set")
}

func TestReceiveAndNoReceive(t *testing.T) {
	ch := make(chan string, 1)
	testutil.NoReceive(t, ch, 10*time.Millisecond)
	ch <- "roster-changed"
	if got := testutil.Receive(t, ch, time.Second); got != "roster-changed" {
		t.Errorf("got %q", got)
	}
}
