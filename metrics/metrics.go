// Package metrics holds the Prometheus collectors of the payment engine.
// Every method is safe to call on a nil *Registry so tests and the CLI can
// run without metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	registry *prometheus.Registry

	Allocations        *prometheus.CounterVec
	AllocationDuration *prometheus.HistogramVec
	OracleFallbacks    prometheus.Counter
	CacheLookups       *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	RateLimited        prometheus.Counter
}

func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Allocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_engine_allocations_total",
				Help: "Allocation requests served, by goal and regime",
			},
			[]string{"goal", "regime"},
		),

		AllocationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_engine_allocation_duration_seconds",
				Help:    "Time spent ranking, allocating and simulating one request",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
			},
			[]string{"goal"},
		),

		OracleFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_engine_oracle_fallbacks_total",
				Help: "Balanced rankings that fell back to the rule score",
			},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_engine_cache_lookups_total",
				Help: "Result cache lookups by outcome",
			},
			[]string{"result"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_engine_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_engine_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_engine_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}

	r.registry.MustRegister(
		r.Allocations,
		r.AllocationDuration,
		r.OracleFallbacks,
		r.CacheLookups,
		r.HTTPRequests,
		r.HTTPDuration,
		r.RateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer is used by tests to read collected values.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

func (r *Registry) ObserveAllocation(goal, regime string, d time.Duration) {
	if r == nil {
		return
	}
	r.Allocations.WithLabelValues(goal, regime).Inc()
	r.AllocationDuration.WithLabelValues(goal).Observe(d.Seconds())
}

func (r *Registry) OracleFallback() {
	if r == nil {
		return
	}
	r.OracleFallbacks.Inc()
}

func (r *Registry) CacheLookup(result string) {
	if r == nil {
		return
	}
	r.CacheLookups.WithLabelValues(result).Inc()
}

func (r *Registry) ObserveHTTP(route string, code int, d time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (r *Registry) RateLimitRejected() {
	if r == nil {
		return
	}
	r.RateLimited.Inc()
}
