// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package recommend predicts movie ratings and produces diversified
// recommendation lists.
//
// # Model
//
// The rating model is a truncated SVD of bias-corrected residuals plus a
// hierarchy of damped additive biases:
//
//	r(u, i) = μ + b_i + b_u + b_year + Σ b_u,genre + b_u,decade + b_u,lang + b_u,runtime + u·Σ·v
//
// Ratings are modelled on the 0.5-5 scale and reported on the 0-10 display
// scale. Items the model never saw get a cold-start item bias blended from
// an external vote prior and the learned biases of items with similar genre
// sets. The interaction term is dropped for unknown users or items.
//
// Models are fitted offline by Trainer, written as a JSON artifact, and
// loaded with LoadModel. A loaded Model is immutable; ModelHolder swaps
// models atomically so a reload never blocks readers.
//
// # Fallbacks
//
// When no model is loaded, or the user is unknown to it, Recommender returns
// a popularity ranking of locally rated items. Neighborhood provides a
// user-kNN estimate that needs no trained model; the graph builder uses it
// for prediction edges in that case.
//
// # Diversity
//
// Recommender scores three times as many candidates as requested and hands
// the pool to a Reranker (see the reranking package) to trade relevance for
// variety.
//
// # Thread Safety
//
// Recommender, Neighborhood and ModelHolder are safe for concurrent use.
package recommend
