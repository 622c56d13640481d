// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	loggerKey contextKey = "logger"
)

// NewRunID returns a short random identifier for one unit of work.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// ContextWithRunID returns a copy of ctx carrying id.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run ID in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores logger in ctx.
//
//nolint:gocritic // zerolog.Logger is passed by value by design
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger stored in ctx, or the global one, with the run ID
// attached when ctx has one.
func Ctx(ctx context.Context) *zerolog.Logger {
	logger, ok := ctx.Value(loggerKey).(zerolog.Logger)
	if !ok {
		logger = Logger()
	}
	logger = WithContext(ctx, logger)
	return &logger
}

// WithContext attaches the run ID in ctx, if any, to a component logger.
//
//nolint:gocritic // zerolog.Logger is passed by value by design
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if id := RunIDFromContext(ctx); id != "" {
		return logger.With().Str("run_id", id).Logger()
	}
	return logger
}
