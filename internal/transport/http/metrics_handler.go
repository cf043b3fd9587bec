package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"deliverypulse/internal/infrastructure"
)

// MetricsHandler serves the Prometheus scrape endpoint backed by the
// pipeline's dedicated registry.
type MetricsHandler struct {
	inner http.Handler
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(metrics *infrastructure.Metrics) *MetricsHandler {
	return &MetricsHandler{
		inner: promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}),
	}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.inner.ServeHTTP(w, r)
}
