package handlers

import (
	"errors"
	"net/http"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusDegraded = "degraded"
	statusNotReady = "not_ready"
)

// HealthResponse is the body of both health endpoints. Checks is omitted
// from liveness responses.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles liveness and readiness HTTP endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a new HealthHandler with the given health registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{Status: statusOK})
}

// Readiness handles GET /health/ready. It returns 503 if any check fails.
// Checks that wrap ports.ErrDegraded keep the service ready but change the
// overall status to "degraded".
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	resp := HealthResponse{Status: statusReady, Checks: make(map[string]string, len(results))}
	code := http.StatusOK
	for name, err := range results {
		switch {
		case err == nil:
			resp.Checks[name] = statusOK
		case errors.Is(err, ports.ErrDegraded):
			resp.Checks[name] = err.Error()
			if code == http.StatusOK {
				resp.Status = statusDegraded
			}
		default:
			resp.Checks[name] = err.Error()
			resp.Status = statusNotReady
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, r, code, resp)
}
