package gateway

import (
	"fmt"
	"time"

	"github.com/kbukum/sessionkit/resilience"
)

// Config tunes transports and inbound limits.
type Config struct {
	// SendBuffer is the per-channel outbound queue length.
	SendBuffer int `yaml:"send_buffer" mapstructure:"send_buffer"`
	// ReadLimit caps an inbound WebSocket message, in bytes.
	ReadLimit int64 `yaml:"read_limit" mapstructure:"read_limit"`
	// PongWait is how long a WebSocket may stay silent before it is dropped.
	PongWait time.Duration `yaml:"pong_wait" mapstructure:"pong_wait"`
	// PingPeriod must be shorter than PongWait.
	PingPeriod time.Duration `yaml:"ping_period" mapstructure:"ping_period"`
	// WriteWait bounds a single frame write.
	WriteWait time.Duration `yaml:"write_wait" mapstructure:"write_wait"`
	// WatchKeepAlive is the SSE comment interval on watch streams.
	WatchKeepAlive time.Duration `yaml:"watch_keep_alive" mapstructure:"watch_keep_alive"`
	// AllowedOrigins restricts WebSocket upgrades; empty or "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	// RateLimit is applied per channel to inbound events.
	RateLimit resilience.RateLimiterConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.SendBuffer == 0 {
		c.SendBuffer = 256
	}
	if c.ReadLimit == 0 {
		c.ReadLimit = 8 << 10
	}
	if c.PongWait == 0 {
		c.PongWait = 60 * time.Second
	}
	if c.PingPeriod == 0 {
		c.PingPeriod = c.PongWait * 9 / 10
	}
	if c.WriteWait == 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.WatchKeepAlive == 0 {
		c.WatchKeepAlive = 30 * time.Second
	}
	if c.RateLimit.Rate == 0 {
		c.RateLimit.Rate = 20
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 40
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.SendBuffer < 1 {
		return fmt.Errorf("gateway.send_buffer must be positive (got: %d)", c.SendBuffer)
	}
	if c.ReadLimit < 512 {
		return fmt.Errorf("gateway.read_limit must be at least 512 bytes (got: %d)", c.ReadLimit)
	}
	if c.PingPeriod >= c.PongWait {
		return fmt.Errorf("gateway.ping_period (%s) must be shorter than gateway.pong_wait (%s)", c.PingPeriod, c.PongWait)
	}
	if c.RateLimit.Rate < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("gateway.rate_limit values must be non-negative")
	}
	return nil
}
