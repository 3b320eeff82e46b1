package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON structure returned to HTTP clients.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}

// FromResponse rebuilds an AppError from a decoded error body. The agent uses
// it to turn a lifecycle 4xx/5xx into the same typed error the server raised.
func FromResponse(status int, body ErrorBody) *AppError {
	if body.Code == "" {
		body.Code = codeForStatus(status)
	}
	if body.Message == "" {
		body.Message = http.StatusText(status)
	}
	return &AppError{
		Code:       body.Code,
		Message:    body.Message,
		Retryable:  body.Retryable || IsRetryableCode(body.Code),
		HTTPStatus: status,
		Details:    body.Details,
	}
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case status >= 500:
		return ErrCodeServiceUnavailable
	default:
		return ErrCodeInvalidInput
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
