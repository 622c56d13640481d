// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package api is the operator HTTP surface of cinegraph serve, routed with
// chi.
//
// Routes:
//
//	GET /metrics  Prometheus exposition
//	GET /healthz  liveness, always 200 while the process runs
//	GET /readyz   200 when the dataset store answers (and, if required, a
//	              model is loaded), 503 otherwise
//
// Every route runs behind RequestID, chi's Recoverer and PrometheusMetrics.
package api
