package observability

import (
	"fmt"
	"time"
)

// Config controls OTLP export. With Enabled false the global no-op providers
// stay in place and every instrument is free.
type Config struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the sample rate bounds.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be within [0,1] (got: %v)", c.SampleRate)
	}
	return nil
}
