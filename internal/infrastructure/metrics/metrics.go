// Package metrics exposes Prometheus collectors for checkout submissions and HTTP traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes
const (
	OutcomeSettled  = "settled"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeBusy     = "busy"
)

// ModeUnknown labels a submission rejected before its checkout was loaded
const ModeUnknown = "unknown"

// Metrics holds the service collectors. Build one per registry.
type Metrics struct {
	registry        *prometheus.Registry
	submissions     *prometheus.CounterVec
	settledAmount   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	backendCalls    *prometheus.CounterVec
}

// New registers the collectors, plus Go and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "submissions_total",
			Help:      "Checkout submissions by mode (create, update, hold) and outcome.",
		}, []string{"mode", "outcome"}),
		settledAmount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "settled_amount_total",
			Help:      "Invoice totals accepted by the salon backend, in minor units.",
		}, []string{"mode"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "checkout",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		backendCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Subsystem: "backend",
			Name:      "failures_total",
			Help:      "Salon backend calls that failed, by operation.",
		}, []string{"operation"}),
	}
}

// ObserveSubmission counts one submit or hold attempt
func (m *Metrics) ObserveSubmission(mode, outcome string) {
	m.submissions.WithLabelValues(mode, outcome).Inc()
}

// ObserveSettled adds an accepted invoice total
func (m *Metrics) ObserveSettled(mode string, total int64) {
	m.settledAmount.WithLabelValues(mode).Add(float64(total))
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

// ObserveBackendFailure counts a failed call to the salon backend
func (m *Metrics) ObserveBackendFailure(operation string) {
	m.backendCalls.WithLabelValues(operation).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
