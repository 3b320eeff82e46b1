package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	err = New(ErrCodeSessionNotFound, "gone", http.StatusNotFound)
	if err.Retryable {
		t.Error("SESSION_NOT_FOUND should not be retryable")
	}
}

func TestSessionNotFound(t *testing.T) {
	err := SessionNotFound("ZZ99")
	if err.Code != ErrCodeSessionNotFound {
		t.Errorf("expected SESSION_NOT_FOUND, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["session_id"] != "ZZ99" {
		t.Errorf("expected session_id=ZZ99, got %v", err.Details["session_id"])
	}

	if SessionNotFound("").Details != nil {
		t.Error("expected no details for an empty id")
	}
}

func TestTransportFailure(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := TransportFailure("verify", cause)
	if !err.Retryable {
		t.Error("TRANSPORT_FAILURE should be retryable")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable through errors.Is")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_Is_MatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("join: %w", SessionNotFound("AB12"))
	if !stderrors.Is(wrapped, SessionNotFound("")) {
		t.Error("expected errors.Is to match on code")
	}
	if stderrors.Is(wrapped, ProtocolViolation("x")) {
		t.Error("different codes must not match")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := ProtocolViolation("unbound sender").WithDetail("channel_id", "c1")
	if err.Details["channel_id"] != "c1" {
		t.Errorf("expected channel_id=c1, got %v", err.Details["channel_id"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"SessionNotFound", SessionNotFound("X"), ErrCodeSessionNotFound, http.StatusNotFound, false},
		{"TransportFailure", TransportFailure("dial", nil), ErrCodeTransportFailure, http.StatusServiceUnavailable, true},
		{"ProtocolViolation", ProtocolViolation("bad"), ErrCodeProtocolViolation, http.StatusBadRequest, false},
		{"ServiceUnavailable", ServiceUnavailable("gateway"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"MissingField", MissingField("sessionId"), ErrCodeMissingField, http.StatusBadRequest, false},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestToResponse_FromResponse_PreservesCode(t *testing.T) {
	orig := SessionNotFound("ZZ99")
	resp := orig.ToResponse()
	got := FromResponse(http.StatusNotFound, resp.Error)
	if got.Code != ErrCodeSessionNotFound {
		t.Errorf("expected SESSION_NOT_FOUND, got %s", got.Code)
	}
	if got.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got.HTTPStatus)
	}
}

func TestFromResponse_FillsMissingCode(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusTooManyRequests, ErrCodeRateLimited},
		{http.StatusBadGateway, ErrCodeServiceUnavailable},
		{http.StatusBadRequest, ErrCodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			got := FromResponse(tc.status, ErrorBody{})
			if got.Code != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got.Code)
			}
			if got.Message == "" {
				t.Error("expected status text as fallback message")
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", TransportFailure("dial", nil))
	if !HasCode(err, ErrCodeTransportFailure) {
		t.Error("expected HasCode to see through wrapping")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeTransportFailure) {
		t.Error("plain errors carry no code")
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected AsAppError to fail for plain errors")
	}
}
