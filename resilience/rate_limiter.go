package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned by Execute when no token is available.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	// Name identifies the limiter in logs, typically the channel id.
	Name string `yaml:"-" mapstructure:"-"`
	// Rate is the number of tokens added per second.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst is the bucket size.
	Burst int `yaml:"burst" mapstructure:"burst"`
	// OnLimit is called whenever a request is refused.
	OnLimit func(name string) `yaml:"-" mapstructure:"-"`
}

// DefaultRateLimiterConfig allows 20 events per second with bursts of 40.
func DefaultRateLimiterConfig(name string) RateLimiterConfig {
	return RateLimiterConfig{Name: name, Rate: 20, Burst: 40}
}

// RateLimiter is a token bucket. The gateway keeps one per live channel.
type RateLimiter struct {
	config RateLimiterConfig
	now    func() time.Time

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	return newRateLimiter(config, time.Now)
}

func newRateLimiter(config RateLimiterConfig, now func() time.Time) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 20
	}
	if config.Burst <= 0 {
		config.Burst = int(config.Rate)
		if config.Burst < 1 {
			config.Burst = 1
		}
	}
	return &RateLimiter{
		config:     config,
		now:        now,
		tokens:     float64(config.Burst),
		lastRefill: now(),
	}
}

// Allow takes one token if available.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN takes n tokens if available, without blocking.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	rl.refill()
	ok := rl.tokens >= float64(n)
	if ok {
		rl.tokens -= float64(n)
	}
	rl.mu.Unlock()

	if !ok && rl.config.OnLimit != nil {
		rl.config.OnLimit(rl.config.Name)
	}
	return ok
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		rl.refill()
		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - rl.tokens) / rl.config.Rate * float64(time.Second))
		rl.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Execute runs fn if a token is available.
func (rl *RateLimiter) Execute(fn func() error) error {
	if !rl.Allow() {
		return ErrRateLimited
	}
	return fn()
}

// Tokens returns the number of tokens currently available.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

func (rl *RateLimiter) refill() {
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.lastRefill = now
	rl.tokens += elapsed * rl.config.Rate
	if limit := float64(rl.config.Burst); rl.tokens > limit {
		rl.tokens = limit
	}
}
