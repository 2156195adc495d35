package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/trello-agent/internal/config"
)

// Server represents the API server
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server listening on cfg.Addr()
func NewServer(cfg config.ServerConfig, h *Handlers, corsCfg config.CORSConfig) *Server {
	handler := SetupRoutes(h, corsCfg)
	return &Server{
		config:  cfg,
		handler: handler,
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			// Every request may chain several sequential Trello calls.
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe starts the HTTP server. It returns http.ErrServerClosed
// after Shutdown, including a Shutdown that happened before the call.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
