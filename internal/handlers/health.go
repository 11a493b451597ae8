package handlers

import (
	"net/http"
	"runtime"
	"time"

	"media-preview/internal/logging"
	"media-preview/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
	checkOK        = "ok"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string            `json:"status"`
	Ready   bool              `json:"ready"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks"`

	// Thumbnail cache
	ThumbnailCount int   `json:"thumbnailCount"`
	ThumbnailBytes int64 `json:"thumbnailBytes"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// runChecks runs every readiness probe. The map holds "ok" or the error
// text per check.
func (h *Handlers) runChecks() (map[string]string, bool) {
	results := make(map[string]string, len(h.checks))
	ready := true
	for _, c := range h.checks {
		if err := c.Probe(); err != nil {
			logging.Warn("Readiness check %s failed: %v", c.Name, err)
			results[c.Name] = err.Error()
			ready = false
			continue
		}
		results[c.Name] = checkOK
	}
	return results, ready
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	checks, ready := h.runChecks()

	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        ready,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Checks:       checks,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	if !ready {
		response.Status = statusDegraded
	}

	if count, size, err := h.store.Stats(); err == nil {
		response.ThumbnailCount = count
		response.ThumbnailBytes = size
	}

	w.Header().Set("Content-Type", "application/json")
	if ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the cache is writable and the frame
// extractor can be launched.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	checks, ready := h.runChecks()

	w.Header().Set("Content-Type", "application/json")
	if ready {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]interface{}{
			"status": "ready",
			"checks": checks,
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]interface{}{
			"status": "not_ready",
			"checks": checks,
		})
	}
}
