// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package supervisor runs the long-lived parts of the serve command under a
// suture v4 tree.
//
// The root supervisor "cinegraph" has two children, each with its own
// failure budget:
//
//	cinegraph
//	├── model-layer   services.ModelReloadService
//	└── http-layer    services.HTTPServerService (/metrics, /healthz, /readyz)
//
// A service that returns an error is restarted; after FailureThreshold
// failures within the decay window its supervisor backs off for
// FailureBackoff. Supervisor events are logged through sutureslog, which the
// serve command points at logging.NewSlogLogger so that they come out as
// zerolog lines.
//
//	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
//	tree.AddModelService(services.NewModelReloadService(holder, cfg, onReload))
//	tree.AddHTTPService(services.NewHTTPServerService(server, 10*time.Second))
//	err := tree.Serve(ctx)
package supervisor
