// Package metrics exposes Prometheus instruments for tree walks.
//
// All methods are safe to call on a nil *Metrics, so components can run
// without a registry in tests and one-shot CLI walks.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "predictree"

// Child stream outcomes.
const (
	ChildOK     = "ok"
	ChildFailed = "failed"
	ChildEmpty  = "empty"
)

type Metrics struct {
	Events       *prometheus.CounterVec
	Predictions  *prometheus.CounterVec
	ChildStreams *prometheus.CounterVec
	ActiveWalks  prometheus.Gauge
	WalkDuration *prometheus.HistogramVec
	Rejected     *prometheus.CounterVec
}

// New creates the instruments and registers them on reg (skipped when reg is nil).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "Events written to callers, by event name.",
		}, []string{"event"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_generated_total",
			Help:      "Sibling predictions accepted, by depth.",
		}, []string{"depth"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_rejected_total",
			Help:      "Sibling predictions dropped by the generator, by depth.",
		}, []string{"depth"}),
		ChildStreams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "child_streams_total",
			Help:      "Recursive child invocations, by outcome.",
		}, []string{"outcome"}),
		ActiveWalks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_walks",
			Help:      "Tree walks currently streaming.",
		}),
		WalkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "walk_duration_seconds",
			Help:      "Wall time of a node's walk, by depth.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"depth"}),
	}
	if reg != nil {
		reg.MustRegister(m.Events, m.Predictions, m.Rejected, m.ChildStreams, m.ActiveWalks, m.WalkDuration)
	}
	return m
}

func (m *Metrics) EventEmitted(name string) {
	if m == nil {
		return
	}
	if name == "" {
		name = "message"
	}
	m.Events.WithLabelValues(name).Inc()
}

func (m *Metrics) PredictionAccepted(depth string) {
	if m == nil {
		return
	}
	m.Predictions.WithLabelValues(depth).Inc()
}

func (m *Metrics) PredictionRejected(depth string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(depth).Inc()
}

func (m *Metrics) ChildStream(outcome string) {
	if m == nil {
		return
	}
	m.ChildStreams.WithLabelValues(outcome).Inc()
}

// WalkStarted marks a walk active and returns the func that ends it.
func (m *Metrics) WalkStarted(depth string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	m.ActiveWalks.Inc()
	return func() {
		m.ActiveWalks.Dec()
		m.WalkDuration.WithLabelValues(depth).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
