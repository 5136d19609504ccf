// Package api provides the JSON HTTP API for users and tasks.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/tasklane/internal/app"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux       *http.ServeMux
	server    *http.Server
	logger    *slog.Logger
	metrics   *observability.InMemoryMetrics
	health    *observability.HealthRegistry
	users     *UserHandler
	tasks     *TaskHandler
	startedAt time.Time
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:3000",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates an API server backed by the container's handlers.
func NewServer(cfg ServerConfig, c *app.Container) *Server {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		metrics:   c.Metrics,
		health:    c.Health,
		users:     NewUserHandler(c, logger),
		tasks:     NewTaskHandler(c, logger),
		startedAt: time.Now(),
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes. Resource routes are served both
// at the root and under /api.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)

	for _, prefix := range []string{"", "/api"} {
		// Users
		s.mux.HandleFunc("GET "+prefix+"/users", s.users.List)
		s.mux.HandleFunc("POST "+prefix+"/users", s.users.Create)
		s.mux.HandleFunc("GET "+prefix+"/users/{id}", s.users.Get)
		s.mux.HandleFunc("PUT "+prefix+"/users/{id}", s.users.Update)
		s.mux.HandleFunc("DELETE "+prefix+"/users/{id}", s.users.Delete)

		// Tasks
		s.mux.HandleFunc("GET "+prefix+"/tasks", s.tasks.List)
		s.mux.HandleFunc("POST "+prefix+"/tasks", s.tasks.Create)
		s.mux.HandleFunc("GET "+prefix+"/tasks/export", s.tasks.Export)
		s.mux.HandleFunc("GET "+prefix+"/tasks/{id}", s.tasks.Get)
		s.mux.HandleFunc("PUT "+prefix+"/tasks/{id}", s.tasks.Update)
		s.mux.HandleFunc("DELETE "+prefix+"/tasks/{id}", s.tasks.Delete)
	}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withRecover(s.withAccessLog(s.mux)))
}

// handleHealth reports component health. Unhealthy maps to 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.health.GetOverallHealth(r.Context())

	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status":    health.Status,
		"timestamp": health.Timestamp.Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"checks":    health.Checks,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
