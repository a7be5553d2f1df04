// Package metrics exposes the Prometheus instrumentation for ArborDB.
// Metrics are registered through promauto, so importing the package is all
// the initialization there is.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts store operations, labeled by operation
	// ("set", "get", "delete", "clear") and outcome ("inserted", "replaced",
	// "hit", "miss", "deleted", "done").
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbordb_operations_total",
			Help: "Total number of store operations processed",
		},
		[]string{"op", "outcome"},
	)

	// OperationDuration measures per-operation latency. In-memory operations
	// sit in the microsecond range unless they queue behind the tree lock,
	// so the buckets start well below a millisecond.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arbordb_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 1e-2, 5e-2},
		},
		[]string{"op"},
	)

	// KeysTotal tracks the number of keys currently stored.
	KeysTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "arbordb_keys_total",
			Help: "Number of keys currently stored",
		},
	)
)
