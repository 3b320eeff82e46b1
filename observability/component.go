package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/sessionkit/component"
	"github.com/kbukum/sessionkit/logger"
)

// Telemetry owns the tracer and meter providers for a process.
type Telemetry struct {
	cfg     Config
	service string
	version string
	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	log     *logger.Logger
}

var (
	_ component.Component   = (*Telemetry)(nil)
	_ component.Describable = (*Telemetry)(nil)
)

// NewTelemetry creates the component. Providers are installed on Start.
func NewTelemetry(cfg Config, service, version string, log *logger.Logger) *Telemetry {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Telemetry{cfg: cfg, service: service, version: version, log: log.WithComponent("telemetry")}
}

func (t *Telemetry) Name() string { return "telemetry" }

func (t *Telemetry) Start(ctx context.Context) error {
	if !t.cfg.Enabled {
		t.log.Debug("telemetry disabled, using no-op providers")
		return nil
	}
	tp, err := InitTracer(ctx, t.service, t.version, t.cfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	mp, err := InitMeter(ctx, t.service, t.version, t.cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry: %w", err)
	}
	t.tp, t.mp = tp, mp
	t.log.Info("telemetry started", logger.Fields("endpoint", t.cfg.Endpoint, "sample_rate", t.cfg.SampleRate))
	return nil
}

func (t *Telemetry) Stop(ctx context.Context) error {
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (t *Telemetry) Health(_ context.Context) component.Health {
	msg := "disabled"
	if t.cfg.Enabled {
		msg = "exporting to " + t.cfg.Endpoint
	}
	return component.Health{Name: t.Name(), Status: component.StatusHealthy, Message: msg}
}

func (t *Telemetry) Describe() component.Description {
	details := "noop"
	if t.cfg.Enabled {
		details = fmt.Sprintf("otlp %s sample=%.2f", t.cfg.Endpoint, t.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "otel", Details: details}
}
