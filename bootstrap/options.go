package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/sessionkit/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	summaryOut      io.Writer
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger instead of initializing one from config.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = &d }
}

// WithSummaryOutput redirects the startup summary table.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) { o.summaryOut = w }
}
