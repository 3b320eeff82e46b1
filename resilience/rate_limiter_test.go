package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	limited := 0
	rl := newRateLimiter(RateLimiterConfig{
		Name: "c1", Rate: 10, Burst: 3,
		OnLimit: func(string) { limited++ },
	}, clock.Now)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow() {
		t.Error("request over burst should be rejected")
	}
	if limited != 1 {
		t.Errorf("expected OnLimit once, got %d", limited)
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	rl := newRateLimiter(RateLimiterConfig{Rate: 10, Burst: 1}, clock.Now)

	if !rl.Allow() {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow() {
		t.Fatal("second request should be rejected")
	}
	clock.Advance(100 * time.Millisecond)
	if !rl.Allow() {
		t.Error("expected a token after 100ms at 10/s")
	}
}

func TestRateLimiter_CapsAtBurst(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	rl := newRateLimiter(RateLimiterConfig{Rate: 100, Burst: 5}, clock.Now)
	clock.Advance(time.Hour)
	if got := rl.Tokens(); got != 5 {
		t.Errorf("expected tokens capped at 5, got %v", got)
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})
	if rl.config.Rate != 20 || rl.config.Burst != 20 {
		t.Errorf("unexpected defaults rate=%v burst=%d", rl.config.Rate, rl.config.Burst)
	}
	d := DefaultRateLimiterConfig("x")
	if d.Burst != 40 {
		t.Errorf("expected default burst 40, got %d", d.Burst)
	}
}

func TestRateLimiter_Execute(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1})
	calls := 0
	fn := func() error { calls++; return nil }

	if err := rl.Execute(fn); err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if err := rl.Execute(fn); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected fn to run once, got %d", calls)
	}
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1})
	rl.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRateLimiter_WaitSucceeds(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 200, Burst: 1})
	rl.Allow()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rl.Wait(ctx); err != nil {
		t.Errorf("expected token within a second, got %v", err)
	}
}
