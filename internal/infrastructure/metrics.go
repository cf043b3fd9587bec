package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the delivery pipeline.
type Metrics struct {
	registry *prometheus.Registry

	FilesNormalized prometheus.Counter
	SchemaRejected  prometheus.Counter
	CacheHits       prometheus.Counter
	RowsKept        prometheus.Counter
	RenderPasses    *prometheus.CounterVec
}

// NewMetrics creates the pipeline collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		FilesNormalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "deliverypulse_files_normalized_total",
			Help: "Number of CSV files successfully normalized.",
		}),
		SchemaRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "deliverypulse_files_schema_rejected_total",
			Help: "Number of CSV files rejected for missing required columns.",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "deliverypulse_normalize_cache_hits_total",
			Help: "Number of uploads served from the content-addressed normalize cache.",
		}),
		RowsKept: factory.NewCounter(prometheus.CounterOpts{
			Name: "deliverypulse_rows_kept_total",
			Help: "Number of cleaned trade records produced by normalization.",
		}),
		RenderPasses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deliverypulse_render_passes_total",
			Help: "Number of aggregate table computations, by granularity.",
		}, []string{"granularity"}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
