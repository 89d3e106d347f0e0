package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_created_total", Help: "Signals stored as PENDING"},
		[]string{"pair", "direction"},
	)
	SignalsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_resolved_total", Help: "Signals moved to a terminal status"},
		[]string{"pair", "status"},
	)
	CycleItemsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cycle_items_failed_total", Help: "Per-pair or per-signal failures inside a cycle"},
		[]string{"cycle"},
	)
	CycleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cycle_duration_seconds",
			Help:    "Wall time of generation and check cycles",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"cycle"},
	)
)

func init() {
	prometheus.MustRegister(SignalsCreated, SignalsResolved, CycleItemsFailed, CycleDuration)
}

func ObserveCycle(cycle string, started time.Time, failed int) {
	CycleDuration.WithLabelValues(cycle).Observe(time.Since(started).Seconds())
	if failed > 0 {
		CycleItemsFailed.WithLabelValues(cycle).Add(float64(failed))
	}
}

func Handler() http.Handler { return promhttp.Handler() }
