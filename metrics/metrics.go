// Package metrics provides Prometheus metrics for HTTP server monitoring
// and the interaction-analysis domain:
//   - http_request_total / http_request_duration_seconds / http_request_in_flight
//   - resolution_total: resolver outcomes by entity kind
//   - finding_total: detected interactions by type
//   - catalog_drugs / catalog_foods: size of the served snapshot
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	// ResolutionTotals counts resolver lookups. kind is "drug" or "food",
	// outcome is "resolved" or "unresolved".
	ResolutionTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolution_total",
			Help: "Entity resolution attempts by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// FindingTotals counts detected interactions by finding type.
	FindingTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finding_total",
			Help: "Detected interaction findings by type",
		},
		[]string{"type"},
	)

	CatalogDrugs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_drugs",
			Help: "Number of drugs in the served catalog snapshot",
		},
	)

	CatalogFoods = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_foods",
			Help: "Number of foods in the served catalog snapshot",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(ResolutionTotals)
	prometheus.MustRegister(FindingTotals)
	prometheus.MustRegister(CatalogDrugs)
	prometheus.MustRegister(CatalogFoods)
}
