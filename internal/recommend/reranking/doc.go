// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package reranking implements post-processing for recommendation diversity.
//
// # MMR
//
// Maximal Marginal Relevance greedily builds the output list. Each step picks
// the candidate that maximises
//
//	λ·rel(i) − (1−λ)·max sim(i, s) over selected s
//
// where rel is the candidate's score min-max normalised over the pool and
// sim is similarity.FeatureSimilarity (genres, language, runtime bucket and
// decade). The first pick is always the top-scored candidate.
//
// λ = 1 returns the pool in score order; λ = 0 ignores relevance after the
// first pick.
//
// # Usage
//
//	rec.SetReranker(reranking.NewMMR(cfg.MMRLambda))
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
package reranking
