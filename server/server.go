package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/sessionkit/logger"
	"github.com/kbukum/sessionkit/server/endpoint"
	"github.com/kbukum/sessionkit/server/middleware"
)

// Server is the HTTP front of the session service: a Gin engine mounted on a
// ServeMux, wrapped by the middleware chain and served over HTTP/1.1 and h2c.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	config     Config
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server. Routes are registered on GinEngine or via Handle
// before Start.
func New(cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	s := &Server{
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("server"),
	}

	chain := middleware.Chain(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.config.CORS),
		middleware.BodySizeLimit(cfg.MaxBodySize),
		middleware.RequestLogger(s.log),
	)
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          time.Duration(cfg.IdleTimeout) * time.Second,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(chain(mux), h2s),
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// GinEngine returns the Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the fully wrapped root handler, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Handle mounts a plain http.Handler on the root mux.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", map[string]interface{}{"pattern": pattern})
}

// RegisterDefaultEndpoints adds /health and /info. Either func may be nil.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker, stats endpoint.StatsFunc) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName, stats))
}

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{"addr": ln.Addr().String()})
	return nil
}

// Stop shuts down gracefully within the configured wait.
func (s *Server) Stop(ctx context.Context) error {
	wait := time.Duration(s.config.ShutdownWait) * time.Second
	if wait <= 0 {
		wait = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.ErrorFields("shutdown", err))
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// RegisterOnShutdown runs fn when Stop begins, before in-flight requests
// drain. Hijacked connections are not tracked by http.Server, so owners of
// long-lived streams close them here.
func (s *Server) RegisterOnShutdown(fn func()) {
	s.httpServer.RegisterOnShutdown(fn)
}
