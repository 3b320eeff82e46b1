package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/sessionkit/component"
	"github.com/kbukum/sessionkit/logger"
)

// App runs a binary's components through start, ready and stop.
// C is the binary's config type; anything embedding config.ServiceConfig fits.
//
//	app, err := bootstrap.NewApp(&cfg)
//	_ = app.RegisterComponent(gateway.NewComponent(gw))
//	return app.Run(ctx)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	summaryOut      io.Writer
	onReady         []Hook
	onStop          []Hook
}

// NewApp applies config defaults, validates, and initializes logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := resolveOptions(opts)
	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: 15 * time.Second,
		summaryOut:      os.Stdout,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.summaryOut != nil {
		app.summaryOut = o.summaryOut
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck fails when any registered component is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %s", strings.Join(unhealthy, ", "))
	}
	return nil
}

// Run starts everything, blocks until SIGINT/SIGTERM or ctx is done, then stops.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.waitForSignal(ctx)
	return a.stop()
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	writeSummary(a.summaryOut, a.Name, a.Version, time.Since(start), a.Components.All())
	return nil
}

// waitForSignal blocks until an interrupt/term signal or context cancellation.
func (a *App[C]) waitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
