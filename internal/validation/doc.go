// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package validation wraps go-playground/validator with a shared instance and
// readable error messages.
//
// Graph requests, imported dataset records and the loaded configuration are
// all validated through ValidateStruct using ordinary struct tags:
//
//	type Request struct {
//	    UserID   int64 `json:"user_id" validate:"gt=0"`
//	    MaxNodes int   `json:"max_nodes" validate:"gte=3,lte=20000"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    return fmt.Errorf("invalid graph request: %w", verr)
//	}
//
// Field names in messages come from the koanf tag, then the json tag, then
// the Go field name, so a config error reads "max_nodes must be at least 3"
// rather than naming the Go field.
//
// # Custom tags
//
//   - loglevel: a level name understood by the logging package
package validation
