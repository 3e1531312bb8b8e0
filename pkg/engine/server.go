package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/stubapi/stubd/pkg/config"
	"github.com/stubapi/stubd/pkg/resource"
	"github.com/stubapi/stubd/pkg/simulate"
)

// Server owns the resource store and the HTTP listener serving it.
type Server struct {
	cfg     *config.ServerConfig
	store   *resource.Store
	handler http.Handler
	log     *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	running    bool
}

// ServerOption customizes a Server during construction.
type ServerOption func(*Server)

// WithLogger sets the logger used for access and error logging.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// NewServer builds a server from the given configuration. A nil config
// uses the defaults.
func NewServer(cfg *config.ServerConfig, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Server{
		cfg:   cfg,
		store: resource.NewStore(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	delay, err := cfg.Delay()
	if err != nil {
		return nil, err
	}
	unit, err := cfg.Unit()
	if err != nil {
		return nil, err
	}

	handler := NewHandler(s.store, simulate.NewPipeline(simulate.New(delay, unit)), s.log)
	s.handler = AccessLog(s.log)(handler)
	return s, nil
}

// Store exposes the server's resource store, mainly for tests and
// programmatic seeding.
func (s *Server) Store() *resource.Store {
	return s.store
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start binds the listener and begins serving in the background. It
// returns once the port is bound, so a following request cannot race
// the listener.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("server already running")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.HTTPPort))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.cfg.HTTPPort, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
	}
	s.running = true

	srv := s.httpServer
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("http server stopped", "error", err)
		}
	}()

	s.log.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Stop shuts the server down gracefully, waiting for in-flight requests
// until the context expires.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	err := s.httpServer.Shutdown(ctx)
	s.httpServer = nil
	s.listener = nil
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}
