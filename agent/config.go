package agent

import (
	"time"

	"github.com/kbukum/sessionkit/validation"
)

const (
	DefaultVerifyTimeout = 10 * time.Second
	DefaultJoinTimeout   = 10 * time.Second
)

// Config configures an Agent.
type Config struct {
	// ServerURL is the http(s) base of the lifecycle API and the channel endpoint.
	ServerURL string `yaml:"server_url" mapstructure:"server_url" validate:"required,url"`
	// VerifyTimeout bounds the verify call.
	VerifyTimeout time.Duration `yaml:"verify_timeout" mapstructure:"verify_timeout" validate:"gte=0"`
	// JoinTimeout bounds the wait for the first roster after sending join.
	JoinTimeout time.Duration `yaml:"join_timeout" mapstructure:"join_timeout" validate:"gte=0"`
	// Identity defaults to NewIdentity().
	ParticipantID string `yaml:"participant_id" mapstructure:"participant_id" validate:"max=64"`
	DisplayName   string `yaml:"display_name" mapstructure:"display_name" validate:"max=64"`
}

// ApplyDefaults fills unset fields, generating an identity if needed.
func (c *Config) ApplyDefaults() {
	if c.VerifyTimeout == 0 {
		c.VerifyTimeout = DefaultVerifyTimeout
	}
	if c.JoinTimeout == 0 {
		c.JoinTimeout = DefaultJoinTimeout
	}
	if c.ParticipantID == "" {
		id := NewIdentity()
		c.ParticipantID = id.ParticipantID
		if c.DisplayName == "" {
			c.DisplayName = id.DisplayName
		}
	}
	if c.DisplayName == "" {
		c.DisplayName = c.ParticipantID
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
