package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gh-devops-mcp/client-go/internal/api"
)

const namespace = "ghdevops"

// Outcome labels for RequestsTotal besides the error categories.
const (
	OutcomeSuccess = "success"
)

// Metrics holds the Prometheus collectors for GitHub API traffic. It
// implements api.Observer so the retry loop can report every attempt.
type Metrics struct {
	// Logical requests by method and final outcome
	RequestsTotal *prometheus.CounterVec
	// Physical HTTP exchanges by method and status ("0" when no response)
	AttemptsTotal *prometheus.CounterVec
	// Retries by reason
	RetriesTotal *prometheus.CounterVec
	// Time spent sleeping before a retry, by reason
	RetryWait *prometheus.HistogramVec
	// Per-attempt latency by method
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of GitHub API requests by final outcome",
			},
			[]string{"method", "outcome"},
		),
		AttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attempts_total",
				Help:      "Total number of HTTP exchanges with the GitHub API",
			},
			[]string{"method", "status"},
		),
		RetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retries_total",
				Help:      "Total number of retried attempts by reason",
			},
			[]string{"reason"},
		),
		RetryWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "retry_wait_seconds",
				Help:      "Time waited before retrying a request",
				Buckets:   []float64{0, 1, 2, 4, 5, 10, 30, 60},
			},
			[]string{"reason"},
		),
		// Buckets: 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s, 10s, 30s
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of a single GitHub API attempt in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method"},
		),
	}
}

// ObserveAttempt implements api.Observer.
func (m *Metrics) ObserveAttempt(method string, _ int, status int, elapsed time.Duration) {
	m.AttemptsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveRetry implements api.Observer.
func (m *Metrics) ObserveRetry(_ string, reason api.RetryReason, wait time.Duration) {
	m.RetriesTotal.WithLabelValues(string(reason)).Inc()
	m.RetryWait.WithLabelValues(string(reason)).Observe(wait.Seconds())
}

// RecordRequest counts one finished logical request.
func (m *Metrics) RecordRequest(method, outcome string) {
	m.RequestsTotal.WithLabelValues(method, outcome).Inc()
}

var _ api.Observer = (*Metrics)(nil)
