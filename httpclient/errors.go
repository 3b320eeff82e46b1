package httpclient

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "github.com/kbukum/sessionkit/errors"
)

// classifyResponse converts a non-2xx answer into the AppError the server
// described. Returns nil for 2xx.
func classifyResponse(status int, body []byte) *apperrors.AppError {
	if status >= 200 && status < 300 {
		return nil
	}
	var resp apperrors.ErrorResponse
	_ = json.Unmarshal(body, &resp)
	return apperrors.FromResponse(status, resp.Error)
}

// classifyTransport wraps a failure to get any answer at all.
func classifyTransport(ctx context.Context, op string, err error) *apperrors.AppError {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = errors.Join(ctxErr, err)
	}
	return apperrors.TransportFailure(op, err)
}
