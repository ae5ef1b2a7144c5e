package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the bot core.
type Metrics struct {
	CommandsHandled *prometheus.CounterVec   // labels: command, outcome
	ProviderCalls   *prometheus.CounterVec   // labels: provider, outcome={success,error}
	ProviderLatency *prometheus.HistogramVec // labels: provider
	FeedbackStored  prometheus.Counter
}

// NewMetrics creates and registers all core metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CommandsHandled,
		m.ProviderCalls,
		m.ProviderLatency,
		m.FeedbackStored,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CommandsHandled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "placebot",
			Name:      "commands_handled_total",
			Help:      "Commands handled, by command name and outcome.",
		}, []string{"command", "outcome"}),
		ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "placebot",
			Name:      "provider_calls_total",
			Help:      "Upstream provider calls, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "placebot",
			Name:      "provider_call_duration_seconds",
			Help:      "Upstream provider call duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		FeedbackStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "placebot",
			Name:      "feedback_stored_total",
			Help:      "Feedback entries appended to the store.",
		}),
	}
}
