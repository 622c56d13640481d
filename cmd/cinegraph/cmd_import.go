// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/store"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dataset.json>",
		Short: "Load a JSON dataset into the store",
		Long: `Load ratings, movies and collections from a JSON dataset into the badger
store at store.path. Invalid records are skipped and counted. Ratings for an
existing (user, item) pair replace the stored rating.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0])
		},
	}
}

func runImport(cmd *cobra.Command, opts *rootOptions, path string) (err error) {
	ds, err := store.LoadDataset(path)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.cfg.StoreOptions())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
		}
	}()

	stats, err := store.Import(cmd.Context(), st, ds)
	if err != nil {
		return err
	}

	logging.Ctx(cmd.Context()).Info().
		Str("dataset", path).
		Int("ratings", stats.Ratings).
		Int("movies", stats.Movies).
		Int("skipped", stats.SkippedRatings+stats.SkippedMovies).
		Msg("dataset imported")
	return writeJSON(cmd.OutOrStdout(), stats)
}
