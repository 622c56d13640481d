// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinegraph/internal/middleware"
	"github.com/tomtom215/cinegraph/internal/recommend"
)

// Pinger is satisfied by *store.Badger.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelSource is satisfied by *recommend.ModelHolder.
type ModelSource interface {
	Current() *recommend.Model
}

// Deps are the collaborators the handlers report on. Store may be nil, in
// which case readiness always fails.
type Deps struct {
	Store  Pinger
	Models ModelSource

	// RequireModel makes /readyz fail until a model is loaded. Set when a
	// model path is configured.
	RequireModel bool

	Version string
}

// Handler serves the operator endpoints.
type Handler struct {
	deps      Deps
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps, startTime: time.Now()}
}

// NewRouter wires the operator routes.
func NewRouter(deps Deps) http.Handler {
	h := NewHandler(deps)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	return r
}
