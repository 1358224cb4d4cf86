// Package http is the inbound HTTP adapter: a gin engine behind a net/http
// server, plus the router that mounts the catalog API and internal routes.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pokedex-service/internal/platform/config"
)

// defaultShutdownTimeout applies when the config leaves it unset.
const defaultShutdownTimeout = 10 * time.Second

// Server runs a gin engine and drains it on shutdown.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     *config.ServerConfig
	logger     *slog.Logger
	listener   net.Listener
}

// New creates a server for cfg. Routes are added through Engine before Run.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(maxBodySize(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           engine,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		config: cfg,
		logger: logger,
	}
}

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Listen binds the configured address. Binding early surfaces a taken port
// before anything else starts, and lets port 0 resolve for Addr.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}

	s.listener = ln

	return nil
}

// Addr returns the bound address once listening, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.httpServer.Addr
}

// Start serves in the background. The channel carries at most one bind or
// serve error and closes when serving ends.
func (s *Server) Start() <-chan error {
	done := make(chan error, 1)

	if err := s.Listen(); err != nil {
		done <- err
		close(done)
		return done
	}

	s.logger.Info("starting HTTP server",
		slog.String("addr", s.Addr()),
		slog.Duration("read_timeout", s.config.ReadTimeout),
		slog.Duration("write_timeout", s.config.WriteTimeout),
	)

	go func() {
		defer close(done)

		err := s.httpServer.Serve(s.listener)
		if !errors.Is(err, http.ErrServerClosed) {
			done <- fmt.Errorf("http server error: %w", err)
		}
	}()

	return done
}

// Run serves until ctx is done, then shuts down within ShutdownTimeout.
// It returns early with the error if serving fails.
func (s *Server) Run(ctx context.Context) error {
	done := s.Start()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.logger.Info("initiating graceful shutdown", slog.Duration("timeout", timeout))

	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-done
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")

	return nil
}

// maxBodySize caps request bodies; reads past the limit fail.
func maxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
