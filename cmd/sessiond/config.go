package main

import (
	"fmt"

	"github.com/kbukum/sessionkit/config"
	"github.com/kbukum/sessionkit/gateway"
	"github.com/kbukum/sessionkit/observability"
	"github.com/kbukum/sessionkit/server"
	"github.com/kbukum/sessionkit/session"
)

const serviceName = "sessiond"

// Config is the sessiond configuration, loaded from config.yml, .env and the
// environment.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Session       SessionConfig        `yaml:"session" mapstructure:"session"`
	Gateway       gateway.Config       `yaml:"gateway" mapstructure:"gateway"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// SessionConfig tunes the registry.
type SessionConfig struct {
	CodeLength int `yaml:"code_length" mapstructure:"code_length"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Gateway.ApplyDefaults()
	c.Observability.ApplyDefaults()
	if c.Session.CodeLength == 0 {
		c.Session.CodeLength = session.DefaultCodeLength
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Gateway.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	if c.Session.CodeLength < 4 || c.Session.CodeLength > 12 {
		return fmt.Errorf("session.code_length must be between 4 and 12 (got: %d)", c.Session.CodeLength)
	}
	return nil
}
