// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package logging provides the zerolog-based structured logger shared by
// every cinegraph component.
//
// A single global logger is configured once from the logging section of the
// config and then read by components, each of which derives a child logger
// tagged with its name:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logger := logging.With().Str("component", "graph_builder").Logger()
//	logger.Info().Int64("user_id", 7).Int("nodes", 42).Msg("graph built")
//
// # Run IDs
//
// Each CLI invocation and each reload cycle of the server runs under a short
// run ID carried in the context. WithContext stamps it onto a component
// logger so that every line of one graph build can be grepped together:
//
//	ctx = logging.ContextWithRunID(ctx, logging.NewRunID())
//	log := logging.WithContext(ctx, logger)
//
// # slog bridge
//
// suture reports supervisor events through log/slog. NewSlogHandler adapts
// those records onto the zerolog logger so that they share format and level:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Conventions
//
// Messages are lower case, values go into typed fields rather than the
// message string, and every chain ends in Msg or Send.
package logging
