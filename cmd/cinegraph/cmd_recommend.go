// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/cinegraph/internal/recommend"
)

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var (
		user  int64
		limit int
		scope string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print recommendations for a user",
		Long: `Score candidates with the loaded model, oversample and re-rank them with MMR
for diversity. Users the model does not know, or runs without a model, get
the popularity ranking instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := recommend.ParseScope(scope)
			if err != nil {
				return err
			}
			return withApp(opts.cfg, true, func(a *app) error {
				resp, err := a.recommender.Recommend(cmd.Context(), user, limit, sc)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().Int64Var(&user, "user", 0, "user ID")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of recommendations")
	cmd.Flags().StringVar(&scope, "scope", string(recommend.ScopeUnrated), "unrated or all")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var (
		user, item int64
		year       int
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Print the predicted rating of one item for one user",
		Long: `Predict a rating on the 0-10 scale with the model at recommend.model_path.
--year overrides the release year, which feeds the year and decade biases.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts.cfg, true, func(a *app) error {
				p, err := a.recommender.PredictRating(cmd.Context(), user, item, year)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
		},
	}
	cmd.Flags().Int64Var(&user, "user", 0, "user ID")
	cmd.Flags().Int64Var(&item, "item", 0, "movie ID")
	cmd.Flags().IntVar(&year, "year", 0, "release year override")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}
