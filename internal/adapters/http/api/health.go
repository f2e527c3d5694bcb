package api

import (
	"net/http"

	"github.com/okian/arena/pkg/metrics"
)

// HealthHandler serves the race metrics.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler backed by the global registry.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{metrics: metrics.Handler()}
}

// HandleHealth handles GET /healthz requests with the Prometheus exposition.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
