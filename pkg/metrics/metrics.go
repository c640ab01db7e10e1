package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reference outcomes recorded in ReferencesTotal.
const (
	OutcomeProduced = "produced"
	OutcomeSkipped  = "skipped"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	ReferencesTotal       *prometheus.CounterVec
	PurgeBytesTotal       *prometheus.CounterVec
	StylesheetsDiscovered prometheus.Histogram
	RequestsRejectedTotal *prometheus.CounterVec
}

// New registers the collectors with reg. Passing nil uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path", "status"},
		),
		ReferencesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purge_references_total",
				Help: "Stylesheet references processed, by outcome.",
			},
			[]string{"outcome"},
		),
		PurgeBytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purge_bytes_total",
				Help: "Stylesheet bytes before (in) and after (out) purging.",
			},
			[]string{"stage"},
		),
		StylesheetsDiscovered: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "purge_stylesheets_discovered",
				Help:    "Stylesheet references found per page.",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
			},
		),
		RequestsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purge_requests_rejected_total",
				Help: "Purge requests that failed before any stylesheet was processed.",
			},
			[]string{"reason"}, // page_fetch, no_stylesheets
		),
	}
}

// ObserveReference counts one pipeline outcome.
func (m *Metrics) ObserveReference(outcome string) {
	m.ReferencesTotal.WithLabelValues(outcome).Inc()
}

// ObserveBytes records the size of a stylesheet before and after purging.
func (m *Metrics) ObserveBytes(in, out int) {
	m.PurgeBytesTotal.WithLabelValues("in").Add(float64(in))
	m.PurgeBytesTotal.WithLabelValues("out").Add(float64(out))
}
