// Package metrics exposes Prometheus collectors for the document store, the
// auth gate, and the working-set cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/wardbook/internal/auth"
)

const namespace = "wardbook"

type Metrics struct {
	registry *prometheus.Registry

	storeOps       *prometheus.CounterVec
	storeDuration  *prometheus.HistogramVec
	authTransition *prometheus.CounterVec
	slotSize       *prometheus.GaugeVec
}

// New registers every collector on a fresh registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Document store operations by collection, operation and result.",
		}, []string{"collection", "op", "result"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Document store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection", "op"}),
		authTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "transitions_total",
			Help:      "Auth gate transitions by target state.",
		}, []string{"to"}),
		slotSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "slot_size",
			Help:      "Number of records held in each working-set slot.",
		}, []string{"slot"}),
	}

	m.registry.MustRegister(
		m.storeOps,
		m.storeDuration,
		m.authTransition,
		m.slotSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOperation implements docstore.Observer.
func (m *Metrics) ObserveOperation(collection, op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOps.WithLabelValues(collection, op, result).Inc()
	m.storeDuration.WithLabelValues(collection, op).Observe(d.Seconds())
}

// ObserveSlotSize implements cache.SizeObserver.
func (m *Metrics) ObserveSlotSize(slot string, n int) {
	m.slotSize.WithLabelValues(slot).Set(float64(n))
}

// ObserveTransition is meant to be subscribed to the auth gate.
func (m *Metrics) ObserveTransition(tr auth.Transition) {
	m.authTransition.WithLabelValues(tr.To.String()).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
