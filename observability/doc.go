// Package observability wires OpenTelemetry tracing and metrics for the
// session layer.
//
// InitTracer and InitMeter install OTLP/HTTP providers globally. Telemetry
// wraps both as a component so bootstrap starts and flushes them.
// SessionMetrics exposes the counters recorded by the gateway and lifecycle
// service; a nil *SessionMetrics is a valid no-op.
package observability
