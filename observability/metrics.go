package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SessionMetrics holds the session layer's instruments. A nil *SessionMetrics
// is valid and records nothing.
type SessionMetrics struct {
	sessionsCreated    metric.Int64Counter
	joins              metric.Int64Counter
	channelsActive     metric.Int64UpDownCounter
	eventsRelayed      metric.Int64Counter
	deliveryFailures   metric.Int64Counter
	protocolViolations metric.Int64Counter
	lifecycleOps       metric.Int64Counter
}

// NewSessionMetrics creates all instruments on m.
func NewSessionMetrics(m metric.Meter) (*SessionMetrics, error) {
	var (
		sm  SessionMetrics
		err error
	)
	if sm.sessionsCreated, err = m.Int64Counter("session.created",
		metric.WithDescription("Sessions created")); err != nil {
		return nil, err
	}
	if sm.joins, err = m.Int64Counter("session.joins",
		metric.WithDescription("Join requests processed")); err != nil {
		return nil, err
	}
	if sm.channelsActive, err = m.Int64UpDownCounter("gateway.channels.active",
		metric.WithDescription("Open client channels")); err != nil {
		return nil, err
	}
	if sm.eventsRelayed, err = m.Int64Counter("gateway.events.relayed",
		metric.WithDescription("Events delivered to channels")); err != nil {
		return nil, err
	}
	if sm.deliveryFailures, err = m.Int64Counter("gateway.delivery.failures",
		metric.WithDescription("Deliveries dropped because the channel was gone or full")); err != nil {
		return nil, err
	}
	if sm.protocolViolations, err = m.Int64Counter("gateway.protocol.violations",
		metric.WithDescription("Malformed inbound events")); err != nil {
		return nil, err
	}
	if sm.lifecycleOps, err = m.Int64Counter("lifecycle.operations",
		metric.WithDescription("Lifecycle HTTP operations by outcome")); err != nil {
		return nil, err
	}
	return &sm, nil
}

func (sm *SessionMetrics) SessionCreated(ctx context.Context) {
	if sm == nil {
		return
	}
	sm.sessionsCreated.Add(ctx, 1)
}

// Join records a join outcome; result is "ok" or "not_found".
func (sm *SessionMetrics) Join(ctx context.Context, result string) {
	if sm == nil {
		return
	}
	sm.joins.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (sm *SessionMetrics) ChannelOpened(ctx context.Context, transport string) {
	if sm == nil {
		return
	}
	sm.channelsActive.Add(ctx, 1, metric.WithAttributes(attribute.String("transport", transport)))
}

func (sm *SessionMetrics) ChannelClosed(ctx context.Context, transport string) {
	if sm == nil {
		return
	}
	sm.channelsActive.Add(ctx, -1, metric.WithAttributes(attribute.String("transport", transport)))
}

func (sm *SessionMetrics) EventRelayed(ctx context.Context, eventType string, n int) {
	if sm == nil || n == 0 {
		return
	}
	sm.eventsRelayed.Add(ctx, int64(n), metric.WithAttributes(attribute.String("event", eventType)))
}

func (sm *SessionMetrics) DeliveryFailed(ctx context.Context, reason string) {
	if sm == nil {
		return
	}
	sm.deliveryFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (sm *SessionMetrics) ProtocolViolation(ctx context.Context) {
	if sm == nil {
		return
	}
	sm.protocolViolations.Add(ctx, 1)
}

// LifecycleOp records one lifecycle call, e.g. ("verify", "not_found").
func (sm *SessionMetrics) LifecycleOp(ctx context.Context, op, status string) {
	if sm == nil {
		return
	}
	sm.lifecycleOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("status", status),
	))
}
