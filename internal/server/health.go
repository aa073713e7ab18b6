package server

import (
	"encoding/json"
	"net/http"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/teemow/linearcal/internal/sync"
)

// Health status constants for health check responses.
const (
	healthStatusOK       = "ok"
	healthStatusNotReady = "not ready"
	healthStatusFailing  = "failing"
)

// HealthChecker provides health check endpoints for the serve mode. It is
// marked ready once the first sync run has completed, and reports the
// outcome of the most recent run.
type HealthChecker struct {
	// ready indicates whether at least one run has completed
	ready atomic.Bool
	// startTime tracks when the server started
	startTime time.Time

	mu         gosync.Mutex
	lastReport sync.Report
	lastErr    error
	lastRunAt  time.Time
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
	}
}

// SetLastRun records the outcome of the most recent sync run and marks the
// checker ready.
func (h *HealthChecker) SetLastRun(report sync.Report, err error) {
	h.mu.Lock()
	h.lastReport = report
	h.lastErr = err
	h.lastRunAt = time.Now()
	h.mu.Unlock()
	h.ready.Store(true)
}

// IsReady returns whether at least one run has completed.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse provides comprehensive health information,
// including the counters of the most recent sync run.
type DetailedHealthResponse struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	LastRunAt  string `json:"last_run_at,omitempty"`
	LastError  string `json:"last_error,omitempty"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Duplicates int    `json:"duplicates"`
}

// LivenessHandler returns an HTTP handler for the /healthz endpoint.
// Liveness only asserts that the process is running.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		_ = json.NewEncoder(w).Encode(HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler returns an HTTP handler for the /readyz endpoint.
// The server is ready once the first run has completed; a run-level failure
// on the latest run flips readiness off so orchestration notices a sync
// that can no longer reach its source or target.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks := make(map[string]string)
		allOk := true

		if !h.ready.Load() {
			checks["first_run"] = healthStatusNotReady
			allOk = false
		} else {
			checks["first_run"] = healthStatusOK
		}

		h.mu.Lock()
		lastErr := h.lastErr
		h.mu.Unlock()
		if lastErr != nil {
			checks["last_run"] = healthStatusFailing
			allOk = false
		} else {
			checks["last_run"] = healthStatusOK
		}

		response := HealthResponse{Checks: checks}
		if allOk {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// DetailedHealthHandler returns an HTTP handler for the /healthz/detailed
// endpoint, exposing the last run's report.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		h.mu.Lock()
		response := DetailedHealthResponse{
			Status:     healthStatusOK,
			Uptime:     time.Since(h.startTime).Truncate(time.Second).String(),
			Created:    h.lastReport.Created,
			Updated:    h.lastReport.Updated,
			Skipped:    h.lastReport.Skipped,
			Failed:     h.lastReport.Failed,
			Duplicates: h.lastReport.Duplicates,
		}
		if !h.lastRunAt.IsZero() {
			response.LastRunAt = h.lastRunAt.UTC().Format(time.RFC3339)
		}
		if h.lastErr != nil {
			response.LastError = h.lastErr.Error()
		}
		h.mu.Unlock()

		if !h.ready.Load() {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		} else if response.LastError != "" {
			response.Status = healthStatusFailing
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// RegisterHealthEndpoints registers health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
