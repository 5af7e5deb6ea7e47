// Package metrics exposes Prometheus instrumentation for sessions, filtering and exports.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "caseviewer"

type Metrics struct {
	registry *prometheus.Registry

	sessionLoads    *prometheus.CounterVec
	loadDuration    prometheus.Histogram
	sessionsActive  prometheus.Gauge
	ambiguousFields prometheus.Counter
	filterRuns      prometheus.Counter
	filterDuration  prometheus.Histogram
	rowsReturned    prometheus.Histogram
	exports         *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.sessionLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_loads_total",
		Help:      "Sheet loads by outcome",
	}, []string{"result"})
	m.loadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_load_duration_seconds",
		Help:      "Time spent fetching and mapping a sheet",
		Buckets:   prometheus.DefBuckets,
	})
	m.sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Sessions currently held in memory",
	})
	m.ambiguousFields = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mapping_ambiguous_fields_total",
		Help:      "Field keys matched by more than one header",
	})
	m.filterRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "filter_runs_total",
		Help:      "Filter passes executed",
	})
	m.filterDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "filter_duration_seconds",
		Help:      "Time spent in a filter pass",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	})
	m.rowsReturned = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "filter_rows_returned",
		Help:      "Rows surviving a filter pass",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
	m.exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Exports written by outcome",
	}, []string{"result"})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.registry.MustRegister(
		m.sessionLoads, m.loadDuration, m.sessionsActive, m.ambiguousFields,
		m.filterRuns, m.filterDuration, m.rowsReturned, m.exports,
		m.httpRequests, m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionLoaded(err error, took time.Duration, ambiguous int) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.sessionLoads.WithLabelValues(result).Inc()
	m.loadDuration.Observe(took.Seconds())
	m.ambiguousFields.Add(float64(ambiguous))
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}

func (m *Metrics) FilterApplied(rows int, took time.Duration) {
	if m == nil {
		return
	}
	m.filterRuns.Inc()
	m.filterDuration.Observe(took.Seconds())
	m.rowsReturned.Observe(float64(rows))
}

func (m *Metrics) ExportWritten(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.exports.WithLabelValues(result).Inc()
}

func (m *Metrics) HTTPRequest(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
