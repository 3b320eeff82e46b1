package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable reports whether a caller may try the operation again.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status used when the error crosses the HTTP surface.
	HTTPStatus int `json:"-"`
	// Details carries extra context such as the session id.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another *AppError by code so errors.Is(err, SessionNotFound(""))
// works regardless of details.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Session errors ---

// SessionNotFound reports an unknown session code.
func SessionNotFound(sessionID string) *AppError {
	e := &AppError{
		Code: ErrCodeSessionNotFound, Message: "Session not found. Check the code and try again.",
		HTTPStatus: http.StatusNotFound, Retryable: false,
	}
	if sessionID != "" {
		e.Details = map[string]any{"session_id": sessionID}
	}
	return e
}

// TransportFailure reports that op could not reach the server or lost the live channel.
// It is marked retryable; the agent surfaces it and leaves the decision to the user.
func TransportFailure(op string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransportFailure, Message: fmt.Sprintf("Connection problem during %s. Please try again.", op),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"operation": op}, Cause: cause,
	}
}

// ProtocolViolation reports an inbound event the gateway refuses to process.
func ProtocolViolation(reason string) *AppError {
	return &AppError{
		Code: ErrCodeProtocolViolation, Message: reason,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// --- Common constructors ---

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// ServiceUnavailable creates a new AppError for a component that is not ready.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
