// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/cinegraph/internal/logging"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{name: "generates new ID", incoming: ""},
		{name: "preserves upstream ID", incoming: "upstream-123", wantSame: true},
		{name: "replaces oversized ID", incoming: strings.Repeat("x", maxRequestIDLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxID, runID string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = GetRequestID(r.Context())
				runID = logging.RunIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if tt.wantSame {
				if got != tt.incoming {
					t.Errorf("header = %q, want %q", got, tt.incoming)
				}
			} else if _, err := uuid.Parse(got); err != nil {
				t.Errorf("header %q is not a UUID: %v", got, err)
			}
			if ctxID != got {
				t.Errorf("context ID %q != header %q", ctxID, got)
			}
			if runID != got {
				t.Errorf("run ID %q != header %q", runID, got)
			}
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("GetRequestID() = %q, want empty", id)
	}
}
