// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/logging"
)

// rootOptions carries the persistent flags and the loaded configuration to
// every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cinegraph",
		Short: "Movie graph analytics and recommendation",
		Long: `Cinegraph turns a ratings dataset into an annotated user/movie graph with
community and centrality analytics, and recommends movies with an SVD model
re-ranked for diversity.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default: $CONFIG_PATH, ./config.yaml, /etc/cinegraph/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"override logging.level (trace, debug, info, warn, error, disabled)")

	cmd.AddCommand(
		newImportCmd(opts),
		newTrainCmd(opts),
		newGraphCmd(opts),
		newRecommendCmd(opts),
		newPredictCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// load reads the configuration, initializes logging and tags the command
// context with a run ID.
func (o *rootOptions) load(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		if !logging.ValidLevel(o.logLevel) {
			return fmt.Errorf("invalid --log-level %q", o.logLevel)
		}
		cfg.Logging.Level = o.logLevel
	}

	logCfg := cfg.LoggingOptions()
	logCfg.Output = cmd.ErrOrStderr()
	logging.Init(logCfg)
	o.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runID := logging.NewRunID()
	cmd.SetContext(logging.ContextWithRunID(ctx, runID))

	logging.Debug().
		Str("command", cmd.Name()).
		Str("run_id", runID).
		Str("store", cfg.Store.Path).
		Msg("configuration loaded")
	return nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
