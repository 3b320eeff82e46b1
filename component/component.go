package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string         `json:"name"`
	Status  HealthStatus   `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Component is a lifecycle-managed part of a running binary: the HTTP server,
// the connection gateway, the telemetry exporters.
type Component interface {
	// Name returns the unique name used for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop shuts the component down and releases its resources.
	Stop(ctx context.Context) error

	// Health reports the current status.
	Health(ctx context.Context) Health
}

// Description holds the one-line summary printed at startup.
type Description struct {
	Name    string
	Type    string
	Details string
}

// Describable is optionally implemented by components that report a startup summary.
type Describable interface {
	Describe() Description
}
