package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for traced cache operations
type Metrics struct {
	// Traced operation metrics
	CallsTotal      *prometheus.CounterVec
	CallErrorsTotal *prometheus.CounterVec
	CallDuration    *prometheus.HistogramVec

	// History bookkeeping metrics
	HistoryAppendsTotal prometheus.Counter
	ReplaysTotal        prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		CallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cachetrace",
			Subsystem: "cache",
			Name:      "calls_total",
			Help:      "Total number of traced operation calls",
		}, []string{"operation"}),
		CallErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cachetrace",
			Subsystem: "cache",
			Name:      "call_errors_total",
			Help:      "Total number of traced operation calls that failed",
		}, []string{"operation"}),
		CallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cachetrace",
			Subsystem: "cache",
			Name:      "call_duration_seconds",
			Help:      "Histogram of traced operation call durations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		HistoryAppendsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cachetrace",
			Subsystem: "history",
			Name:      "appends_total",
			Help:      "Total number of history log entries appended",
		}),
		ReplaysTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cachetrace",
			Subsystem: "history",
			Name:      "replays_total",
			Help:      "Total number of history replays rendered",
		}),
	}
}
