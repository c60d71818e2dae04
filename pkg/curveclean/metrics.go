package curveclean

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	passesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curveclean_reconcile_passes_total",
		Help: "Reconciliation passes by result (ok, bad_request, error)",
	}, []string{"result"})

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "curveclean_reconcile_duration_seconds",
		Help:    "Reconciliation pass latency",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	})

	firstLoadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "curveclean_reconcile_first_loads_total",
		Help: "Passes that fetched sensor series from the store",
	})
)

func passResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsBadRequest(err):
		return "bad_request"
	default:
		return "error"
	}
}
