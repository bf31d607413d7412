// Package api exposes the read-only HTTP interface over the persisted signal
// store: health, signals, the Markdown digest, and Prometheus metrics.
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parkerlabs/radar/internal/metrics"
	"github.com/parkerlabs/radar/internal/radar"
	"github.com/parkerlabs/radar/internal/report"
)

// defaultLimit bounds /v1/signals responses unless the caller narrows it.
const defaultLimit = 100

// Server wires HTTP handlers to the signal store.
type Server struct {
	router    chi.Router
	signals   radar.SignalStore
	threshold int
	clock     radar.Clock
	logger    *zap.Logger
}

// NewServer constructs a Server with routes registered.
func NewServer(signals radar.SignalStore, threshold int, clock radar.Clock, logger *zap.Logger) *Server {
	s := &Server{
		signals:   signals,
		threshold: threshold,
		clock:     clock,
		logger:    logger,
	}
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Get("/signals", s.listSignals)
		r.Get("/report", s.renderReport)
	})
	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listSignals returns stored signals, newest first, filterable by trigger and
// minimum score.
func (s *Server) listSignals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trigger := q.Get("trigger")
	minScore := 0
	if raw := q.Get("min_score"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_score must be an integer")
			return
		}
		minScore = v
	}
	limit := defaultLimit
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}

	all := s.signals.All()
	out := make([]radar.Signal, 0, len(all))
	for _, sig := range all {
		if trigger != "" && string(sig.Trigger) != trigger {
			continue
		}
		if sig.Score < minScore {
			continue
		}
		out = append(out, sig)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if len(out) > limit {
		out = out[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(out),
		"signals": out,
	})
}

func (s *Server) renderReport(w http.ResponseWriter, _ *http.Request) {
	doc := report.Render(s.signals.All(), s.threshold, s.clock.Now())
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		s.logger.Warn("report write failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
