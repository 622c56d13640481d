// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tomtom215/cinegraph/internal/graph/builder"
)

type graphOptions struct {
	user int64
	req  builder.Request
}

func newGraphCmd(opts *rootOptions) *cobra.Command {
	g := &graphOptions{req: builder.DefaultRequest(0)}
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build a user/movie graph and print it as JSON",
		Long: `Build the graph around --user: active users, their well-rated movies, the
selected entity nodes and edges, community and centrality analytics, and
layout hints. Unset flags take their value from the graph section of the
configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := g.request(opts, cmd.Flags())
			return withApp(opts.cfg, true, func(a *app) error {
				graph, err := a.graphs.Build(cmd.Context(), req)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), graph)
			})
		},
	}

	f := cmd.Flags()
	f.Int64Var(&g.user, "user", 0, "requesting user ID")
	f.IntVar(&g.req.MinReviews, "min-reviews", g.req.MinReviews, "reviews that make a user active")
	f.Float64Var(&g.req.RatingThreshold, "rating-threshold", g.req.RatingThreshold, "minimum rating of a good review")
	f.IntVar(&g.req.MaxNodes, "max-nodes", g.req.MaxNodes, "node budget")
	f.IntVar(&g.req.MovieLimit, "movie-limit", g.req.MovieLimit, "maximum movie nodes")
	f.IntVar(&g.req.PredictionsLimit, "predictions", g.req.PredictionsLimit, "prediction edges for the requesting user")
	f.Uint64Var(&g.req.Seed, "seed", g.req.Seed, "community detection and layout seed")
	f.BoolVar(&g.req.ShowGenres, "genres", g.req.ShowGenres, "include genre nodes")
	f.BoolVar(&g.req.ShowCountries, "countries", g.req.ShowCountries, "include country nodes")
	f.BoolVar(&g.req.ShowDirectors, "directors", g.req.ShowDirectors, "include director nodes")
	f.BoolVar(&g.req.ShowActors, "actors", g.req.ShowActors, "include actor nodes")
	f.BoolVar(&g.req.ShowCrew, "crew", g.req.ShowCrew, "include crew nodes")
	f.BoolVar(&g.req.ShowSimilarity, "similarity", g.req.ShowSimilarity, "include user similarity edges")
	f.BoolVar(&g.req.ShowPredictions, "show-predictions", g.req.ShowPredictions, "include prediction edges")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// request starts from the configured defaults and applies the flags the
// user actually set.
func (g *graphOptions) request(opts *rootOptions, flags *pflag.FlagSet) builder.Request {
	req := opts.cfg.GraphRequest(g.user)
	req.ShowGenres = g.req.ShowGenres
	req.ShowCountries = g.req.ShowCountries
	req.ShowDirectors = g.req.ShowDirectors
	req.ShowActors = g.req.ShowActors
	req.ShowCrew = g.req.ShowCrew
	req.ShowSimilarity = g.req.ShowSimilarity
	req.ShowPredictions = g.req.ShowPredictions

	overrides := map[string]func(){
		"min-reviews":      func() { req.MinReviews = g.req.MinReviews },
		"rating-threshold": func() { req.RatingThreshold = g.req.RatingThreshold },
		"max-nodes":        func() { req.MaxNodes = g.req.MaxNodes },
		"movie-limit":      func() { req.MovieLimit = g.req.MovieLimit },
		"predictions":      func() { req.PredictionsLimit = g.req.PredictionsLimit },
		"seed":             func() { req.Seed = g.req.Seed },
	}
	for name, apply := range overrides {
		if flags.Changed(name) {
			apply()
		}
	}
	return req
}
