// Command sessiond serves the session lifecycle API, the WebSocket gateway and
// watch streams.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/sessionkit/bootstrap"
	"github.com/kbukum/sessionkit/component"
	"github.com/kbukum/sessionkit/config"
	"github.com/kbukum/sessionkit/gateway"
	"github.com/kbukum/sessionkit/lifecycle"
	"github.com/kbukum/sessionkit/logger"
	"github.com/kbukum/sessionkit/observability"
	"github.com/kbukum/sessionkit/server"
	"github.com/kbukum/sessionkit/session"
	"github.com/kbukum/sessionkit/version"
)

func main() {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "sessiond: %v\n", err)
		os.Exit(1)
	}
	if err := run(context.Background(), &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "sessiond: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	if cfg.Version == "" {
		app.Version = version.Get().Version
	}
	log := app.Logger

	telemetry := observability.NewTelemetry(cfg.Observability, app.Name, app.Version, log)
	metrics, err := observability.NewSessionMetrics(observability.Meter())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	reg := session.NewRegistry(
		session.WithCodeLength(cfg.Session.CodeLength),
		session.WithLogger(log.WithComponent("registry")),
	)
	gw := gateway.New(reg,
		gateway.WithConfig(cfg.Gateway),
		gateway.WithMetrics(metrics),
		gateway.WithLogger(log.WithComponent("gateway")),
	)

	srv := server.New(cfg.Server, log)
	engine := srv.GinEngine()
	lifecycle.NewHandler(lifecycle.NewService(reg, metrics, log.WithComponent("lifecycle"))).RegisterRoutes(engine)
	gw.RegisterRoutes(engine)
	srv.RegisterDefaultEndpoints(app.Name, app.Components.HealthAll, func() map[string]int {
		channels, bound := gw.Stats()
		return map[string]int{"sessions": reg.Count(), "channels": channels, "active_sessions": bound}
	})
	srv.RegisterOnShutdown(func() { gw.Shutdown(context.Background()) })

	// Components stop in reverse: the gateway closes its channels before the
	// server drains.
	for _, c := range []component.Component{
		telemetry,
		session.NewComponent(reg),
		server.NewComponent(srv),
		gateway.NewComponent(gw),
	} {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}
	app.OnReady(func(context.Context) error {
		log.Info("accepting sessions", logger.Fields("addr", srv.Addr(), "code_length", cfg.Session.CodeLength))
		return nil
	})
	app.OnStop(func(context.Context) error {
		log.Info("discarding in-memory sessions", logger.Fields("sessions", reg.Count(), "participants", reg.Participants()))
		return nil
	})
	return app.Run(ctx)
}
