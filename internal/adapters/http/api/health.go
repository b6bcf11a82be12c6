package api

import (
	"net/http"

	"github.com/okian/burnrisk/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleMetrics serves the Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics.CollectSystem()
	h.metrics.ServeHTTP(w, r)
}
