// Package metrics exposes Prometheus collectors for the eduscout service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels used across counters.
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

var (
	projectsDiscoveredTotal    prometheus.Counter
	listingFetchesTotal        *prometheus.CounterVec
	resolverLookupsTotal       *prometheus.CounterVec
	classificationsTotal       *prometheus.CounterVec
	analysisDurationSeconds    prometheus.Histogram
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		projectsDiscoveredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "eduscout_projects_discovered_total",
				Help: "Total number of project records extracted from the listing page.",
			},
		)

		listingFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eduscout_listing_fetches_total",
				Help: "Total number of listing fetch attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		resolverLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eduscout_resolver_lookups_total",
				Help: "Total number of official-website lookups, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		classificationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eduscout_classifications_total",
				Help: "Total number of classification calls, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		analysisDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eduscout_analysis_duration_seconds",
				Help:    "Histogram of end-to-end analysis latency for a single project.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveDiscovery records a listing fetch and the number of records it produced.
func ObserveDiscovery(outcome string, count int) {
	listingFetchesTotal.WithLabelValues(outcome).Inc()
	if count > 0 {
		projectsDiscoveredTotal.Add(float64(count))
	}
}

// ObserveResolverLookup increments the lookup counter for the given outcome.
func ObserveResolverLookup(outcome string) {
	resolverLookupsTotal.WithLabelValues(outcome).Inc()
}

// ObserveClassification increments the classification counter for the given outcome.
func ObserveClassification(outcome string) {
	classificationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveAnalysisDuration records the latency of one AnalyzeOne invocation.
func ObserveAnalysisDuration(duration time.Duration) {
	analysisDurationSeconds.Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
