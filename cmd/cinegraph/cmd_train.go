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
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/store"
)

const defaultModelPath = "model.json"

type trainOptions struct {
	out     string
	factors int
	damping float64
}

func newTrainCmd(opts *rootOptions) *cobra.Command {
	to := &trainOptions{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the SVD model from the store and write the artifact",
		Long: `Fit bias terms and a truncated SVD of the residual matrix from every rating
in the store, and write the JSON model artifact. The output path defaults to
recommend.model_path, then model.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, opts, to)
		},
	}
	def := recommend.DefaultTrainConfig()
	cmd.Flags().StringVar(&to.out, "out", "", "artifact path")
	cmd.Flags().IntVar(&to.factors, "factors", def.Factors, "number of latent factors")
	cmd.Flags().Float64Var(&to.damping, "damping", def.Damping, "bias shrinkage pseudo-count")
	return cmd
}

func runTrain(cmd *cobra.Command, opts *rootOptions, to *trainOptions) (err error) {
	ctx := cmd.Context()

	out := to.out
	if out == "" {
		out = opts.cfg.Recommend.ModelPath
	}
	if out == "" {
		out = defaultModelPath
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

	records, err := st.AllRatings(ctx)
	if err != nil {
		return err
	}
	all, err := st.AllMovies(ctx)
	if err != nil {
		return err
	}
	movies := make(map[int64]models.Movie, len(all))
	for i := range all {
		movies[all[i].ID] = all[i]
	}

	tc := opts.cfg.RecommendOptions().Training
	tc.Factors = to.factors
	tc.Damping = to.damping

	artifact, err := recommend.NewTrainer(tc).Fit(ctx, records, movies)
	if err != nil {
		return err
	}
	if err := recommend.SaveArtifact(out, artifact); err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Str("path", out).Msg("model artifact written")
	return writeJSON(cmd.OutOrStdout(), struct {
		Path     string             `json:"path"`
		Metadata recommend.Metadata `json:"metadata"`
	}{Path: out, Metadata: artifact.Metadata})
}
