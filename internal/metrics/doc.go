// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package metrics provides Prometheus collectors for graph builds, analytics,
recommendations, caches and the rating store.

All collectors are registered on the default registry through promauto and
share the cinegraph namespace. The serve command exposes them at /metrics:

	curl http://localhost:9464/metrics

# Available Metrics

Graph Builder:
  - cinegraph_graph_build_duration_seconds (histogram, label: outcome)
  - cinegraph_graph_nodes (histogram)

Analytics:
  - cinegraph_community_detection_total (counter, label: method)
  - cinegraph_centrality_fallbacks_total (counter, label: measure)

Recommendations:
  - cinegraph_recommendations_total (counter, label: method)
  - cinegraph_model_loaded (gauge)
  - cinegraph_model_reloads_total (counter, label: result)

Caches:
  - cinegraph_cache_hits_total, cinegraph_cache_misses_total (counters, label: cache)

Rating store:
  - cinegraph_store_breaker_state (gauge, label: name)
  - cinegraph_store_breaker_transitions_total (counter, labels: name, from_state, to_state)

Operator HTTP:
  - cinegraph_http_requests_total (counter, labels: method, route, status)
  - cinegraph_http_request_duration_seconds (histogram, labels: method, route)

# Usage

	start := time.Now()
	g, err := b.Build(ctx, req)
	metrics.RecordGraphBuild(metrics.OutcomeSuccess, time.Since(start), len(g.Nodes))

Collectors are safe for concurrent use.
*/
package metrics
