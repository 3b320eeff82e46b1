package lifecycle

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/logger"
	"github.com/kbukum/sessionkit/observability"
	"github.com/kbukum/sessionkit/session"
)

func (s *Service) start(ctx context.Context, op, id string) (context.Context, trace.Span) {
	return observability.StartSpan(ctx, "lifecycle."+op,
		attribute.String(observability.AttrOperation, op),
		attribute.String(observability.AttrSessionID, session.NormalizeID(id)))
}

// finish ends the span and records the outcome. An unknown session is an
// expected answer, not a span error.
func (s *Service) finish(ctx context.Context, span trace.Span, op string, err error) {
	status := statusOK
	switch {
	case err == nil:
	case apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound):
		status = statusNotFound
		err = nil
	default:
		status = "error"
		s.log.Error("lifecycle operation failed", logger.ErrorFields(op, err))
	}
	observability.EndSpan(span, err)
	s.metrics.LifecycleOp(ctx, op, status)
}
