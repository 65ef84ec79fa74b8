// Package server provides the HTTP server for handsign.
package server

import (
	"net/http"
	"time"

	"github.com/ayusman/handsign/internal/app"
	"github.com/ayusman/handsign/internal/capture"
	"github.com/ayusman/handsign/internal/display"
	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/server/api"
	"github.com/ayusman/handsign/internal/store"
)

// Pipeline is the view of the detection loop the server reads from.
type Pipeline interface {
	State() display.State
	LastEstimates() []gesture.Estimate
	Stats() app.Stats
	Registry() *gesture.Registry
	IsEnabled() bool
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Pipeline  Pipeline
	Snapshots *capture.Snapshots
	Hub       *Hub
}

// Server represents the HTTP server for the handsign application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	var registry *gesture.Registry
	if s.config.Pipeline != nil {
		registry = s.config.Pipeline.Registry()
		s.mux.HandleFunc("/api/state", s.handleState)
	}

	gestureHandler := api.NewGestureHandler(s.config.Store, registry)
	s.mux.Handle("/api/gestures", gestureHandler)
	s.mux.Handle("/api/gestures/", gestureHandler)

	if s.config.Store != nil {
		s.mux.Handle("/api/events", api.NewEventsHandler(s.config.Store))
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/display", s.config.Hub)
	}

	if s.config.Snapshots != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Snapshots))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

type stateResponse struct {
	display.State
	Enabled   bool               `json:"enabled"`
	Estimates []gesture.Estimate `json:"estimates"`
	Stats     app.Stats          `json:"stats"`
}

// handleState handles GET /api/state: the shown sign plus the latest scores.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	p := s.config.Pipeline
	estimates := p.LastEstimates()
	if estimates == nil {
		estimates = []gesture.Estimate{}
	}
	api.WriteJSON(w, http.StatusOK, stateResponse{
		State:     p.State(),
		Enabled:   p.IsEnabled(),
		Estimates: estimates,
		Stats:     p.Stats(),
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
