// Package metrics exposes Prometheus instrumentation for the
// compliance engine's HTTP surface, evaluation pipeline, and external
// ingredient lookups.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_evaluations_total",
			Help: "Total number of compliance evaluations, by resulting verdict status",
		},
		[]string{"status"},
	)

	evaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compliance_evaluation_duration_seconds",
			Help:    "Time to evaluate one compliance request end to end",
			Buckets: prometheus.DefBuckets,
		},
	)

	confidenceScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compliance_confidence_score",
			Help:    "Distribution of confidence scores returned by evaluations",
			Buckets: []float64{0, 0.2, 0.35, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingredient_resolutions_total",
			Help: "Total ingredient resolutions, by the tier that resolved them",
		},
		[]string{"level"},
	)

	externalAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_api_calls_total",
			Help: "Total outbound external ingredient API calls, by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	externalAPIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "external_api_call_duration_seconds",
			Help:    "Outbound external ingredient API call duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	unknownIngredientsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "unknown_ingredients_logged_total",
			Help: "Total ingredients logged as unresolved for later enrichment",
		},
	)

	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits, by cache name",
		},
		[]string{"cache"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses, by cache name",
		},
		[]string{"cache"},
	)

	rateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"endpoint"},
	)
)

// ObserveHTTPRequest records metrics for one completed HTTP request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveEvaluation records metrics for one completed compliance
// evaluation.
func ObserveEvaluation(status string, confidence float64, duration time.Duration) {
	evaluationsTotal.WithLabelValues(status).Inc()
	evaluationDuration.Observe(duration.Seconds())
	confidenceScore.Observe(confidence)
}

// ObserveResolution records the tier that resolved one ingredient.
func ObserveResolution(level string) {
	resolutionsTotal.WithLabelValues(level).Inc()
}

// ObserveExternalAPICall records one outbound connector call.
func ObserveExternalAPICall(source, outcome string, duration time.Duration) {
	externalAPICallsTotal.WithLabelValues(source, outcome).Inc()
	externalAPIDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveUnknownIngredientLogged records one ingredient added to the
// unknown-ingredient log.
func ObserveUnknownIngredientLogged() {
	unknownIngredientsTotal.Inc()
}

// ObserveCacheHit records a cache hit for the named cache.
func ObserveCacheHit(cache string) {
	cacheHits.WithLabelValues(cache).Inc()
}

// ObserveCacheMiss records a cache miss for the named cache.
func ObserveCacheMiss(cache string) {
	cacheMisses.WithLabelValues(cache).Inc()
}

// ObserveRateLimitHit records a rate limit rejection for endpoint.
func ObserveRateLimitHit(endpoint string) {
	rateLimitHits.WithLabelValues(endpoint).Inc()
}
