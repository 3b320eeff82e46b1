package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/sessionkit/component"
	"github.com/kbukum/sessionkit/logger"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumTotal(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", agg)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestSessionMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	sm, err := NewSessionMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewSessionMetrics: %v", err)
	}

	ctx := context.Background()
	sm.SessionCreated(ctx)
	sm.SessionCreated(ctx)
	sm.Join(ctx, "ok")
	sm.ChannelOpened(ctx, "ws")
	sm.ChannelOpened(ctx, "ws")
	sm.ChannelClosed(ctx, "ws")
	sm.EventRelayed(ctx, "chat-message", 3)
	sm.EventRelayed(ctx, "chat-message", 0)
	sm.DeliveryFailed(ctx, "full")
	sm.ProtocolViolation(ctx)
	sm.LifecycleOp(ctx, "verify", "not_found")

	got := collect(t, reader)
	tests := []struct {
		name string
		want int64
	}{
		{"session.created", 2},
		{"session.joins", 1},
		{"gateway.channels.active", 1},
		{"gateway.events.relayed", 3},
		{"gateway.delivery.failures", 1},
		{"gateway.protocol.violations", 1},
		{"lifecycle.operations", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agg, ok := got[tc.name]
			if !ok {
				t.Fatalf("instrument %s not collected", tc.name)
			}
			if total := sumTotal(t, agg); total != tc.want {
				t.Errorf("%s = %d, want %d", tc.name, total, tc.want)
			}
		})
	}
}

func TestNilSessionMetrics(t *testing.T) {
	var sm *SessionMetrics
	ctx := context.Background()
	// must not panic
	sm.SessionCreated(ctx)
	sm.Join(ctx, "ok")
	sm.ChannelOpened(ctx, "ws")
	sm.ChannelClosed(ctx, "ws")
	sm.EventRelayed(ctx, "x", 1)
	sm.DeliveryFailed(ctx, "closed")
	sm.ProtocolViolation(ctx)
	sm.LifecycleOp(ctx, "create", "ok")
}

func TestEndSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tracer := tp.Tracer("test")

	_, ok := tracer.Start(context.Background(), "ok")
	EndSpan(ok, nil)
	_, bad := tracer.Start(context.Background(), "bad")
	EndSpan(bad, errors.New("boom"))

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 ended spans, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Unset {
		t.Errorf("expected unset status, got %v", spans[0].Status().Code)
	}
	if spans[1].Status().Code != codes.Error || spans[1].Status().Description != "boom" {
		t.Errorf("unexpected status %+v", spans[1].Status())
	}
}

func TestStartSpanAttributes(t *testing.T) {
	_, span := StartSpan(context.Background(), "session.verify", attribute.String(AttrSessionID, "AB12"))
	defer span.End()
	if span == nil {
		t.Fatal("expected span")
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		if got := samplerFor(tc.rate).Description(); got != tc.want {
			t.Errorf("samplerFor(%v) = %s, want %s", tc.rate, got, tc.want)
		}
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.Endpoint != "localhost:4318" || c.SampleRate != 1.0 || c.Interval == 0 {
		t.Errorf("unexpected defaults %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	c.SampleRate = 1.5
	if err := c.Validate(); err == nil {
		t.Error("expected error for sample rate > 1")
	}
}

func TestTelemetryDisabled(t *testing.T) {
	tel := NewTelemetry(Config{}, "sessiond", "dev", logger.Nop())
	ctx := context.Background()
	if err := tel.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := tel.Health(ctx); h.Status != component.StatusHealthy || h.Message != "disabled" {
		t.Errorf("unexpected health %+v", h)
	}
	if d := tel.Describe(); d.Details != "noop" {
		t.Errorf("unexpected details %q", d.Details)
	}
	if err := tel.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestInitTracer(t *testing.T) {
	cfg := Config{Endpoint: "localhost:4318", Insecure: true}
	cfg.ApplyDefaults()
	tp, err := InitTracer(context.Background(), "sessiond", "dev", cfg)
	if err != nil {
		t.Skipf("tracer init unavailable: %v", err)
	}
	_ = tp.Shutdown(context.Background())
}
