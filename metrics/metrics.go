package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cricket"

// Outcome labels for ResultsSubmitted.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics owns its registry so tests can build independent instances.
type Metrics struct {
	registry *prometheus.Registry

	resultsSubmitted  *prometheus.CounterVec
	recomputeDuration prometheus.Histogram
	publishFailures   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resultsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_submitted_total",
			Help:      "Match results submitted, by outcome.",
		}, []string{"outcome"}),
		recomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "standings_recompute_seconds",
			Help:      "Time spent applying a result to the points table.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      "Standings snapshots that could not be published after all retries.",
		}),
	}
	m.registry.MustRegister(
		m.resultsSubmitted,
		m.recomputeDuration,
		m.publishFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ResultSubmitted(outcome string) {
	m.resultsSubmitted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRecompute(d time.Duration) {
	m.recomputeDuration.Observe(d.Seconds())
}

func (m *Metrics) PublishFailed() {
	m.publishFailures.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
