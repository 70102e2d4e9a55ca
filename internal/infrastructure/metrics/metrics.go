package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fuga",
			Subsystem: "product_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fuga",
			Subsystem: "product_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Object store operations counter
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fuga",
			Subsystem: "product_api",
			Name:      "storage_operations_total",
			Help:      "Total object store operations",
		},
		[]string{"operation", "status"},
	)

	// Object store operation duration
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fuga",
			Subsystem: "product_api",
			Name:      "storage_duration_seconds",
			Help:      "Object store operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	// Response cache lookups
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fuga",
			Subsystem: "product_api",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"result"},
	)

	// Reclaimed temp objects
	ReclaimedObjectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fuga",
			Subsystem: "product_api",
			Name:      "reclaimed_objects_total",
			Help:      "Orphaned objects deleted by the reclamation job",
		},
		[]string{"bucket"},
	)

	// Reclamation failures
	ReclamationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fuga",
			Subsystem: "product_api",
			Name:      "reclamation_errors_total",
			Help:      "Per-object failures during reclamation sweeps",
		},
		[]string{"bucket"},
	)
)

// ObserveStorage records one object store operation.
func ObserveStorage(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
