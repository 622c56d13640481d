// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/cinegraph/internal/logging"
)

type contextKey string

// RequestIDKey is the context key holding the request ID.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader is read from upstream proxies and echoed back.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds IDs accepted from clients.
const maxRequestIDLen = 128

// RequestID assigns every request an ID, echoes it in the response header
// and stores it in the context both under RequestIDKey and as the logging
// run ID, so logging.Ctx(r.Context()) tags lines with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRunID(ctx, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
