package sqlite

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

// Operation results used as the "result" label.
const (
	resultOK         = "ok"
	resultConstraint = "constraint"
	resultError      = "error"
)

// storeMetrics holds the per-backend operation metrics.
type storeMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newStoreMetrics(reg prometheus.Registerer) *storeMetrics {
	factory := promauto.With(reg)
	return &storeMetrics{
		// Labels: operation (table.verb), result (ok, constraint, error)
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casefile",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total case store operations by outcome",
		}, []string{"operation", "result"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "casefile",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Case store operation latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"operation"}),
	}
}

func (m *storeMetrics) observe(op string, elapsed time.Duration, err error) {
	result := resultOK
	switch {
	case err == nil:
	case errors.Is(err, types.ErrConstraint):
		result = resultConstraint
	default:
		result = resultError
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
