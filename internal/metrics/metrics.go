// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cinemahome"

// Metrics owns a private registry so tests and several instances never
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal       *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	LedgerOperations *prometheus.CounterVec
	ViewMovies       *prometheus.GaugeVec
	HTTPRequests     *prometheus.CounterVec
	CheckoutTotal    *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Showtime fetches from the ticket backend by result (ok, error, cached).",
		}, []string{"result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of showtime fetches from the ticket backend.",
			Buckets:   prometheus.DefBuckets,
		}),
		LedgerOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Hide, undo, redo and restore operations by result.",
		}, []string{"op", "result"}),
		ViewMovies: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "view_movies",
			Help:      "Movies in each bucket of the last built view.",
		}, []string{"bucket"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by method, route and status.",
		}, []string{"method", "route", "status"}),
		CheckoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Checkout attempts by result (ok, invalid, error).",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.FetchTotal,
		m.FetchDuration,
		m.LedgerOperations,
		m.ViewMovies,
		m.HTTPRequests,
		m.CheckoutTotal,
	)
	return m
}

// Registry exposes the registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
