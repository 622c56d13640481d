// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinegraph/internal/api"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/supervisor"
	"github.com/tomtom215/cinegraph/internal/supervisor/services"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the metrics/health server and the model reloader",
		Long: `Run a supervisor tree with two services: the HTTP server on
server.metrics_addr (/metrics, /healthz, /readyz) and a reloader that loads
recommend.model_path at startup and again whenever the file changes, checked
every recommend.reload_interval. Each successful reload clears cached graphs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			// The reloader does the first load.
			return withApp(opts.cfg, false, func(a *app) error {
				return runServe(ctx, a)
			})
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	cfg := a.cfg
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	router := api.NewRouter(api.Deps{
		Store:        a.store,
		Models:       a.models,
		RequireModel: cfg.Recommend.ModelPath != "",
		Version:      version,
	})
	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	tree.AddHTTPService(services.NewHTTPServerService(cfg.Server.MetricsAddr, server, cfg.Server.ShutdownTimeout))
	tree.AddModelService(services.NewModelReloadService(a.models, services.ModelReloadConfig{
		Path:     cfg.Recommend.ModelPath,
		Interval: cfg.Recommend.ReloadInterval,
	}, a.graphs.Clear))

	logging.Info().
		Str("addr", cfg.Server.MetricsAddr).
		Str("model_path", cfg.Recommend.ModelPath).
		Dur("reload_interval", cfg.Recommend.ReloadInterval).
		Msg("starting cinegraph serve")

	err := tree.Serve(ctx)

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("service did not stop within the shutdown timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("cinegraph serve stopped")
	return nil
}
