package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Session errors
const (
	// ErrCodeSessionNotFound indicates the session code is unknown to the registry.
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	// ErrCodeTransportFailure indicates the lifecycle service or the live channel was unreachable.
	ErrCodeTransportFailure ErrorCode = "TRANSPORT_FAILURE"
	// ErrCodeProtocolViolation indicates a malformed or out-of-state event.
	ErrCodeProtocolViolation ErrorCode = "PROTOCOL_VIOLATION"
)

// Availability errors (retryable)
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
)

// Request errors
const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// ErrCodeInternal indicates an internal server error.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransportFailure:   true,
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
