package store

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curveclean_store_operations_total",
		Help: "Store operations by operation and result",
	}, []string{"op", "result"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "curveclean_store_operation_duration_seconds",
		Help:    "Store operation latency",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"op"})
)

// instrumented records metrics around every call of the wrapped Store.
type instrumented struct {
	next Store
}

// Instrument wraps s so each operation is counted and timed.
func Instrument(s Store) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{next: s}
}

func observe(op string, start time.Time, err error) {
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	result := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	operationsTotal.WithLabelValues(op, result).Inc()
}

func (i *instrumented) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	v, err := i.next.Get(ctx, key)
	observe("get", start, err)
	return v, err
}

func (i *instrumented) SetMany(ctx context.Context, values map[string]string) error {
	start := time.Now()
	err := i.next.SetMany(ctx, values)
	observe("set_many", start, err)
	return err
}

func (i *instrumented) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	began := time.Now()
	v, err := i.next.Range(ctx, key, start, stop)
	observe("range", began, err)
	return v, err
}

func (i *instrumented) Push(ctx context.Context, key string, values ...string) error {
	start := time.Now()
	err := i.next.Push(ctx, key, values...)
	observe("push", start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := i.next.Delete(ctx, keys...)
	observe("delete", start, err)
	return err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
