// Package metrics provides Prometheus metrics for the hemotherapy API.
// HTTP metrics are labelled by chi route pattern; domain metrics count
// evaluations and recommended products without any patient data.
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import (
	"github.com/giygas/hemoterapia-api/transfusion"
	"github.com/prometheus/client_golang/prometheus"
)

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
			Help: "Total number of rate limiter buckets after the last prune",
		},
	)

	EvaluationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transfusion_evaluations_total",
			Help: "Total transfusion evaluations served",
		},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfusion_recommendations_total",
			Help: "Recommended blood products by kind",
		},
		[]string{"product"},
	)

	ValidationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transfusion_validation_failures_total",
			Help: "Patient snapshots rejected by input validation",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(EvaluationsTotal)
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(ValidationFailuresTotal)

	// Expose every product series from the start
	for _, kind := range transfusion.ProductKinds {
		RecommendationsTotal.WithLabelValues(string(kind))
	}
}

// ObserveEvaluation counts an evaluation and its recommended products
func ObserveEvaluation(recs []transfusion.Recommendation) {
	EvaluationsTotal.Inc()
	for _, rec := range recs {
		RecommendationsTotal.WithLabelValues(string(rec.Product)).Inc()
	}
}
