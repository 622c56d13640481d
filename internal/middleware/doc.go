// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package middleware provides the HTTP middleware used by the operator server
that cinegraph serve exposes.

Both middlewares use the standard func(http.Handler) http.Handler shape so
they slot into a chi router:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

RequestID honours an incoming X-Request-ID header (up to 128 bytes) and
otherwise generates a UUID. The ID becomes the logging run ID for the
request.

PrometheusMetrics labels requests with the chi route pattern rather than the
raw path. Requests that match no route are labelled "unmatched".
*/
package middleware
