package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/server/endpoint"
	"github.com/kbukum/speechkit/server/middleware"
)

const defaultShutdownTimeout = 5 * time.Second

// Server is the HTTP surface of speechkit: a Gin engine mounted on a root
// ServeMux behind h2c, with its own Prometheus registry.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	h2s        *http2.Server
	registry   *prometheus.Registry
	config     Config
	log        *logger.Logger

	boundAddr atomic.Value // string
	running   atomic.Bool
}

// New creates a Server. No middleware is applied until ApplyMiddleware.
func New(cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Get(componentName)
	}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := gin.New()
	engine.Use(middleware.Metrics(middleware.NewHTTPMetrics(registry)))

	mux := http.NewServeMux()
	mux.Handle("/", engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          seconds(cfg.IdleTimeout),
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           h2c.NewHandler(mux, h2s),
			ReadHeaderTimeout: seconds(cfg.ReadTimeout),
			ReadTimeout:       seconds(cfg.ReadTimeout),
			WriteTimeout:      seconds(cfg.WriteTimeout),
			IdleTimeout:       seconds(cfg.IdleTimeout),
		},
		engine:   engine,
		mux:      mux,
		h2s:      h2s,
		registry: registry,
		config:   cfg,
		log:      log.WithComponent("server"),
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Registerer is where additional Prometheus collectors should be registered
// to show up on /metrics.
func (s *Server) Registerer() prometheus.Registerer {
	return s.registry
}

// Handler returns the root handler with every applied middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Handle mounts an http.Handler at pattern on the root ServeMux.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", map[string]interface{}{
		"pattern": pattern,
	})
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.boundAddr.Store(listener.Addr().String())
	s.running.Store(true)

	go func() {
		defer s.running.Store(false)
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": s.Addr(),
	})
	return nil
}

// Stop gracefully shuts down the server. In-flight invocations see their
// request context canceled once the shutdown deadline passes.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	timeout := seconds(s.config.ShutdownTimeout)
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		_ = s.httpServer.Close()
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	if addr, ok := s.boundAddr.Load().(string); ok {
		return addr
	}
	return s.httpServer.Addr
}

// Running reports whether the server is serving.
func (s *Server) Running() bool {
	return s.running.Load()
}

// ApplyMiddleware wraps the root mux with recovery, request-ID, body-size
// limit and request logging, followed by any extra middleware.
func (s *Server) ApplyMiddleware(extra ...middleware.Middleware) {
	stack := append([]middleware.Middleware{
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.BodySizeLimit(s.config.MaxBodySize),
		middleware.RequestLogger(s.log),
	}, extra...)
	s.httpServer.Handler = h2c.NewHandler(middleware.Chain(stack...)(s.mux), s.h2s)
}

// RegisterDefaultEndpoints registers /health, /info and /metrics.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checkers endpoint.HealthCheckers) {
	s.engine.GET("/health", endpoint.Health(serviceName, checkers))
	s.engine.GET("/info", endpoint.Info(serviceName))
	s.engine.GET("/metrics", endpoint.Metrics(s.registry))
}

// ApplyDefaults applies the standard middleware stack and registers the
// default endpoints.
func (s *Server) ApplyDefaults(serviceName string, checkers endpoint.HealthCheckers) {
	s.ApplyMiddleware()
	s.RegisterDefaultEndpoints(serviceName, checkers)
}
