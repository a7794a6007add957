package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backend and search engine Prometheus metrics.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of search backend requests",
		},
		[]string{"operation", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	BackendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backend_errors_total",
			Help:      "Total search backend errors",
		},
		[]string{"operation", "error_type"},
	)

	FacetCorrectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "facet_corrections_total",
			Help:      "Facet correction calls issued",
		},
		[]string{"purpose"},
	)

	CatalogWarningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_warnings_total",
			Help:      "Catalog merge inconsistencies observed",
		},
		[]string{"kind"},
	)

	CatalogCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog document cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	StreamedDocumentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "streamed_documents_total",
			Help:      "Documents written by streaming exports",
		},
	)
)

var backendMetricsRegistered bool

// RegisterBackendMetrics registers Prometheus backend metrics. Must be called once from main.
func RegisterBackendMetrics() {
	if backendMetricsRegistered {
		return
	}
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(BackendErrorsTotal)
	prometheus.MustRegister(FacetCorrectionsTotal)
	prometheus.MustRegister(CatalogWarningsTotal)
	prometheus.MustRegister(CatalogCacheTotal)
	prometheus.MustRegister(StreamedDocumentsTotal)
	backendMetricsRegistered = true
}
