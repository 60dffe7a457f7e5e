// Package telemetry owns the process prometheus registry and the impactlog counters
//
// A nil *Metrics is valid and records nothing, so services can run without it
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "impactlog"

// Metrics groups every collector the service exports
type Metrics struct {
	reg *prometheus.Registry

	rowsDropped        *prometheus.CounterVec
	sourcesUnavailable *prometheus.CounterVec
	events             *prometheus.CounterVec
	aggregations       *prometheus.CounterVec
	requests           *prometheus.HistogramVec
}

// New builds an independent registry with the impactlog collectors and the
// standard go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		rowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows dropped during normalization, by source and reason.",
		}, []string{"source", "reason"}),
		sourcesUnavailable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_unavailable_total",
			Help:      "Sources skipped for a project, by source and reason.",
		}, []string{"source", "reason"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_normalized_total",
			Help:      "Events produced by the normalizers, by source.",
		}, []string{"source"}),
		aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregations_total",
			Help:      "Project aggregations by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	reg.MustRegister(
		m.rowsDropped,
		m.sourcesUnavailable,
		m.events,
		m.aggregations,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// RowsDropped adds n dropped rows for source and reason
func (m *Metrics) RowsDropped(source, reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsDropped.WithLabelValues(source, reason).Add(float64(n))
}

// SourceUnavailable counts one skipped source
func (m *Metrics) SourceUnavailable(source, reason string) {
	if m == nil {
		return
	}
	m.sourcesUnavailable.WithLabelValues(source, reason).Inc()
}

// Events adds n normalized events for source
func (m *Metrics) Events(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.events.WithLabelValues(source).Add(float64(n))
}

// Aggregation counts one aggregator run, outcome is "ok" or an error class
func (m *Metrics) Aggregation(outcome string) {
	if m == nil {
		return
	}
	m.aggregations.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served request
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the scrape endpoint for this registry
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
