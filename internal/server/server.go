// Package server exposes a local HTTP status surface for the running controller.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/logger"
)

// Config holds the server configuration.
type Config struct {
	// App is optional. Without it only /api/health and /api/events are served.
	App     *app.App
	Session string
}

// Server serves /api/health, /api/status, /api/enabled and /api/events.
type Server struct {
	config Config
	mux    *http.ServeMux
	hub    *Hub
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		hub:    NewHub(config.Session),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.Handle("GET /api/events", s.hub)

	if s.config.App != nil {
		s.mux.HandleFunc("GET /api/status", s.handleStatus)
		s.mux.HandleFunc("GET /api/enabled", s.handleEnabled)
		s.mux.HandleFunc("PUT /api/enabled", s.handleSetEnabled)
		s.mux.HandleFunc("POST /api/enabled", s.handleSetEnabled)
	}
}

// Hub returns the event hub. Register Hub().Publish as a pipeline listener
// to stream accepted gestures.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.start).String(),
		"session": s.config.Session,
	})
}

// Status is the body of GET /api/status.
type Status struct {
	Enabled  bool             `json:"enabled"`
	Strategy string           `json:"strategy"`
	Frames   int64            `json:"frames"`
	Stats    app.Stats        `json:"stats"`
	Bindings []action.Binding `json:"bindings"`
	Clients  int              `json:"clients"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	a := s.config.App
	writeJSON(w, Status{
		Enabled:  a.IsEnabled(),
		Strategy: string(a.Pipeline().Strategy()),
		Frames:   a.Frames(),
		Stats:    a.Pipeline().Stats(),
		Bindings: action.Bindings(),
		Clients:  s.hub.Clients(),
	})
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleEnabled(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]bool{"enabled": s.config.App.IsEnabled()})
}

func (s *Server) handleSetEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		http.Error(w, `Body must be {"enabled": true|false}`, http.StatusBadRequest)
		return
	}
	s.config.App.SetEnabled(*req.Enabled)
	s.handleEnabled(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.hub.Close()
		srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("addr", addr).Info("Status server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
