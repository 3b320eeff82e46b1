package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/sessionkit/resilience"
)

const defaultTimeout = 30 * time.Second

// Config configures the HTTP client.
type Config struct {
	// BaseURL is prepended to every request path.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds non-streaming requests. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are applied to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// RateLimiter paces outbound requests. Nil disables it.
	RateLimiter *resilience.RateLimiterConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpclient: invalid base_url %q", c.BaseURL)
		}
	}
	return nil
}
