// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package services adapts cinegraph components to suture.Service.
//
// HTTPServerService translates http.Server's blocking Serve into suture's
// context-driven Serve and shuts the server down gracefully on cancel.
// ModelReloadService polls the SVD artifact and republishes it through a
// ModelLoader when it changes.
//
// Both implement fmt.Stringer so that suture's event log names them.
package services
