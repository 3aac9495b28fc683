// Package server exposes the fleet over HTTP: JSON telemetry and alert
// endpoints, a WebSocket feed, fault injection, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shved/plantwatch/internal/alerts"
	"github.com/shved/plantwatch/internal/equipment"
	"github.com/shved/plantwatch/internal/metrics"
	"github.com/shved/plantwatch/internal/telemetry"
)

// Server polls the simulator on a fixed interval and serves the latest
// snapshot to HTTP and WebSocket clients.
type Server struct {
	sim      *telemetry.Simulator
	hub      *Hub
	log      *slog.Logger
	secret   string
	interval time.Duration

	mu     sync.RWMutex
	latest []equipment.Reading
}

// New builds a Server around sim. An empty secret disables JWT auth on
// the /api routes.
func New(sim *telemetry.Simulator, log *slog.Logger, secret string, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Server{
		sim:      sim,
		hub:      newHub(log),
		log:      log,
		secret:   secret,
		interval: interval,
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		if s.secret != "" {
			r.Use(requireJWT(s.secret))
		}
		r.Get("/telemetry", s.handleTelemetry)
		r.Get("/telemetry/{machine}", s.handleMachineTelemetry)
		r.Get("/alerts", s.handleAlerts)
		r.Post("/faults", s.handleFault)
	})

	r.Get("/ws", s.hub.serveWS)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run drives the poll loop until ctx is cancelled. The hub runs on its
// own goroutine for the same lifetime.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Server) tick(ctx context.Context) {
	start := time.Now()
	readings, err := s.sim.Poll(ctx)
	if err != nil {
		s.log.Error("poll simulator", "err", err)
		return
	}
	metrics.ObserveSnapshot(time.Since(start))

	s.mu.Lock()
	s.latest = readings
	s.mu.Unlock()

	machineAlerts := classifyAll(readings)
	for _, ma := range machineAlerts {
		metrics.CountAlerts(ma.Alerts)
	}

	s.hub.BroadcastSnapshot(readings)
	s.hub.BroadcastAlerts(machineAlerts)
}

// snapshot returns the latest readings, polling once if the loop has
// not produced a snapshot yet.
func (s *Server) snapshot(ctx context.Context) []equipment.Reading {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest != nil {
		return latest
	}

	readings, err := s.sim.Poll(ctx)
	if err != nil {
		s.log.Error("seed snapshot", "err", err)
		return nil
	}
	s.mu.Lock()
	s.latest = readings
	s.mu.Unlock()
	return readings
}

func classifyAll(readings []equipment.Reading) []MachineAlerts {
	out := make([]MachineAlerts, 0, len(readings))
	for _, r := range readings {
		list := alerts.Classify(r)
		if len(list) == 0 {
			continue
		}
		out = append(out, MachineAlerts{Machine: r.Machine, Alerts: list})
	}
	return out
}

// ── Handlers ─────────────────────────────────────────────────────────

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot(r.Context()))
}

func (s *Server) handleMachineTelemetry(w http.ResponseWriter, r *http.Request) {
	machine := chi.URLParam(r, "machine")
	for _, reading := range s.snapshot(r.Context()) {
		if reading.Machine == machine {
			writeJSON(w, http.StatusOK, reading)
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown machine: "+machine)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, classifyAll(s.snapshot(r.Context())))
}

type faultRequest struct {
	Machine string `json:"machine"`
	Fault   string `json:"fault"`
	Polls   int    `json:"polls"`
}

func (s *Server) handleFault(w http.ResponseWriter, r *http.Request) {
	var req faultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.sim.InjectFault(req.Machine, telemetry.Fault(req.Fault), req.Polls); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Info("fault injected", "machine", req.Machine, "fault", req.Fault, "polls", req.Polls)
	writeJSON(w, http.StatusOK, map[string]string{"status": "injected"})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
