// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cinegraph"

// Build outcomes reported by RecordGraphBuild.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

var (
	// Graph Builder Metrics
	GraphBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_build_duration_seconds",
			Help:      "Duration of graph builds in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"}, // "success", "error", "canceled"
	)

	GraphNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes in built graphs",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 10), // 4 .. 2048
		},
	)

	// Analytics Metrics
	CommunityDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "community_detection_total",
			Help:      "Community detections by the strategy that produced the partition",
		},
		[]string{"method"}, // "leiden", "louvain", "greedy_modularity", "failed"
	)

	CentralityFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "centrality_fallbacks_total",
			Help:      "Centrality measures that fell back to an alternative algorithm",
		},
		[]string{"measure"},
	)

	AnalyticsStageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_stage_failures_total",
			Help:      "Graph analytics stages that failed while the build continued",
		},
		[]string{"stage"}, // "communities", "centrality"
	)

	GraphHealth = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_health_score",
			Help:      "Overall network health score (0-100) of built graphs",
			Buckets:   prometheus.LinearBuckets(10, 10, 10), // 10 .. 100
		},
	)

	// Recommendation Metrics
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation lists served",
		},
		[]string{"method"}, // "svd", "popularity"
	)

	ModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_loaded",
			Help:      "Whether a rating model is loaded (1) or not (0)",
		},
	)

	ModelReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_reloads_total",
			Help:      "Model reload attempts by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache"}, // "catalog", "graph"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Store Circuit Breaker Metrics
	StoreBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_breaker_state",
			Help:      "Rating store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	StoreBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_breaker_transitions_total",
			Help:      "Rating store circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP Metrics (serve command)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of operator HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of operator HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "app_info",
			Help:      "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordGraphBuild records the duration and outcome of a graph build.
// nodes is only observed for successful builds.
func RecordGraphBuild(outcome string, duration time.Duration, nodes int) {
	GraphBuildDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		GraphNodes.Observe(float64(nodes))
	}
}

// RecordBreakerTransition records a store circuit breaker state change.
// state is the numeric value of the new state.
func RecordBreakerTransition(name, from, to string, state int) {
	StoreBreakerState.WithLabelValues(name).Set(float64(state))
	StoreBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordModelReload records a model reload attempt.
func RecordModelReload(err error) {
	if err != nil {
		ModelReloads.WithLabelValues("failure").Inc()
		return
	}
	ModelReloads.WithLabelValues("success").Inc()
}

// RecordHTTPRequest records an operator HTTP request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
