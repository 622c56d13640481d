// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package main is the cinegraph command line.
//
// Cinegraph builds user/movie graphs with community and centrality
// analytics and serves SVD rating predictions with diversity re-ranking,
// all over a local BadgerDB dataset store.
//
// # Commands
//
//	cinegraph import dataset.json           load ratings, movies and collections
//	cinegraph train --out model.json        fit the SVD model from the store
//	cinegraph graph --user 1                build a graph and print it as JSON
//	cinegraph recommend --user 1 --limit 10 print recommendations
//	cinegraph predict --user 1 --item 603   print a single rating prediction
//	cinegraph serve                         run /metrics, /healthz, /readyz and the model reloader
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (CINEGRAPH_<SECTION>_<KEY>, LOG_LEVEL, MODEL_PATH, ...)
//   - Config file (--config, CONFIG_PATH, ./config.yaml, /etc/cinegraph/config.yaml)
//   - Built-in defaults
//
// Logs go to stderr so that JSON results on stdout can be piped.
//
// # Signal Handling
//
// serve shuts down gracefully on SIGINT and SIGTERM: the HTTP server drains
// for up to server.shutdown_timeout and the store is closed last.
package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
