package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planwise_recommendations_total",
		Help: "Total recommendation requests processed",
	}, []string{"status"})

	RecommendationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planwise_recommendation_duration_seconds",
		Help:    "End-to-end recommendation generation latency",
		Buckets: prometheus.DefBuckets,
	})

	PlansFilteredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planwise_plans_filtered_total",
		Help: "Plans excluded by eligibility filtering",
	}, []string{"reason"})

	InvalidPlansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planwise_invalid_plans_total",
		Help: "Catalog entries skipped for structurally invalid rate data",
	})

	// Explainer metrics
	ExplanationFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planwise_explanation_fallbacks_total",
		Help: "Explanation calls degraded to the template fallback",
	})

	ExplanationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planwise_explanation_latency_seconds",
		Help:    "Latency of individual explanation calls",
		Buckets: prometheus.DefBuckets,
	})
)
