// Package metrics exposes the Prometheus collectors of the fleetcost service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every collector name.
const Namespace = "fleetcost"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// Calculation metrics
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "calculations_total",
			Help:      "Total number of scenario calculations",
		},
		[]string{"outcome"},
	)

	CalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Scenario calculation duration in seconds, catalog fetch included",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	ResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "calculation_results_total",
			Help:      "Total number of per-energy results produced",
		},
	)

	// Catalog cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_cache_hits_total",
			Help:      "Total number of catalog snapshot cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_cache_misses_total",
			Help:      "Total number of catalog snapshot cache misses",
		},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
	)

	// Import metrics
	ImportedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "imported_records_total",
			Help:      "Total number of catalog records written by imports",
		},
		[]string{"kind"},
	)
)

// RecordCalculation records one calculation and, on success, how many
// results it produced.
func RecordCalculation(duration time.Duration, results int, err error) {
	if err != nil {
		CalculationsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	CalculationsTotal.WithLabelValues(OutcomeSuccess).Inc()
	CalculationDuration.Observe(duration.Seconds())
	ResultsTotal.Add(float64(results))
}

func RecordCacheHit() {
	CacheHits.Inc()
}

func RecordCacheMiss() {
	CacheMisses.Inc()
}

// RecordHTTPRequest records a served request. route is the matched route
// template, not the raw path.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordRateLimited() {
	RateLimited.Inc()
}

func RecordImport(kind string, count int) {
	ImportedRecords.WithLabelValues(kind).Add(float64(count))
}
