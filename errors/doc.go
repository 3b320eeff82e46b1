// Package errors provides the structured error type shared by the session
// server, its HTTP surface and the participant agent.
//
// Every error carries a machine-readable code, the HTTP status used when it
// crosses the lifecycle API, and a retryable flag. Session-specific codes are
// SESSION_NOT_FOUND, TRANSPORT_FAILURE and PROTOCOL_VIOLATION.
package errors
