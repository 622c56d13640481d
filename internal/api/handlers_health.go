// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/recommend"
)

// pingTimeout bounds the store check in /readyz.
const pingTimeout = 2 * time.Second

// HealthStatus is the /healthz body.
type HealthStatus struct {
	Status  string  `json:"status"`
	Version string  `json:"version,omitempty"`
	Uptime  float64 `json:"uptime_seconds"`
}

// ReadyStatus is the /readyz body.
type ReadyStatus struct {
	Status         string              `json:"status"`
	StoreConnected bool                `json:"store_connected"`
	StoreError     string              `json:"store_error,omitempty"`
	ModelLoaded    bool                `json:"model_loaded"`
	Model          *recommend.Metadata `json:"model,omitempty"`
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, HealthStatus{
		Status:  "alive",
		Version: h.deps.Version,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}

// Readyz is the readiness probe.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	status := ReadyStatus{Status: "ready"}

	if h.deps.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		err := h.deps.Store.Ping(ctx)
		cancel()
		status.StoreConnected = err == nil
		if err != nil {
			status.StoreError = err.Error()
			logging.Ctx(r.Context()).Warn().Err(err).Msg("readiness: store ping failed")
		}
	}

	if h.deps.Models != nil {
		if m := h.deps.Models.Current(); m != nil {
			meta := m.Metadata()
			status.ModelLoaded = true
			status.Model = &meta
		}
	}

	code := http.StatusOK
	if !status.StoreConnected || (h.deps.RequireModel && !status.ModelLoaded) {
		code = http.StatusServiceUnavailable
		status.Status = "not_ready"
	}
	respondJSON(w, code, status)
}
