// Package server exposes the tree walk over HTTP together with health,
// readiness and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tinyland-inc/predictree/pkg/logger"
	"github.com/tinyland-inc/predictree/pkg/metrics"
	"github.com/tinyland-inc/predictree/pkg/tree"
)

type Options struct {
	Addr         string
	WalkPath     string
	Walker       tree.Walker
	MaxBodyBytes int64
	// Gatherer backs the metrics endpoint; nil disables it.
	Gatherer    prometheus.Gatherer
	MetricsPath string
	Version     string
}

type Server struct {
	server  *http.Server
	ready   atomic.Bool
	started time.Time
	version string
}

func NewServer(opts Options) *Server {
	s := &Server{version: opts.Version, started: time.Now()}

	walkPath := opts.WalkPath
	if walkPath == "" {
		walkPath = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ready", s.readyHandler)
	if opts.Gatherer != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, metrics.Handler(opts.Gatherer))
	}
	mux.Handle(walkPath, &Handler{Walker: opts.Walker, MaxBodyBytes: opts.MaxBodyBytes})

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.ready.Store(true)
	logger.InfoCF("server", "Listening", map[string]any{"addr": ln.Addr().String()})
	err := s.server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop marks the server not ready and drains in-flight streams until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	s.ready.Store(false)
	return s.server.Shutdown(ctx)
}

func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

type status struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, status{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.started).Truncate(time.Second).String(),
	})
}

func (s *Server) readyHandler(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, status{Status: "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, status{Status: "ready", Version: s.version})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
