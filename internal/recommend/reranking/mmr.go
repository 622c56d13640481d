// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package reranking

import (
	"context"

	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/similarity"
)

// DefaultLambda favours relevance while still breaking up near-duplicates.
const DefaultLambda = 0.7

// maxRerankSize limits slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking.
type MMR struct {
	// lambda balances relevance vs. diversity (0.0 to 1.0)
	lambda float64
}

// NewMMR creates a new MMR reranker. lambda is clamped to [0, 1].
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank selects up to k items from items, which arrive sorted by score.
// The result never repeats an item ID. A cancelled context stops the
// selection and returns what was picked so far.
//
//nolint:gocritic // rangeValCopy: ScoredItem passed by value in range, acceptable for clarity
func (m *MMR) Rerank(ctx context.Context, items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	items = dedupe(items)
	if len(items) == 0 || k <= 0 {
		return nil
	}

	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(items) {
		k = len(items)
	}

	if m.lambda >= 1.0 {
		return append([]recommend.ScoredItem(nil), items[:k]...)
	}

	relevance := normalize(items)
	similarities := buildSimilarityMatrix(items)

	// The anchor is the top scorer regardless of lambda.
	first := 0
	for i := range items {
		if items[i].Score > items[first].Score {
			first = i
		}
	}
	selected := make([]recommend.ScoredItem, 0, k)
	selected = append(selected, items[first])
	selectedIndices := map[int]struct{}{first: {}}

	// maxSim[i] tracks the highest similarity of i to anything selected.
	maxSim := make([]float64, len(items))
	copy(maxSim, similarities[first])

	for len(selected) < k {
		if ctx.Err() != nil {
			break
		}
		bestIdx := -1
		bestMMR := 0.0

		for i := range items {
			if _, ok := selectedIndices[i]; ok {
				continue
			}
			mmrScore := m.lambda*relevance[i] - (1-m.lambda)*maxSim[i]
			if bestIdx < 0 || mmrScore > bestMMR {
				bestMMR = mmrScore
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}

		selected = append(selected, items[bestIdx])
		selectedIndices[bestIdx] = struct{}{}
		for i, sim := range similarities[bestIdx] {
			if sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}
	return selected
}

// normalize min-max scales scores to [0, 1]. A pool of equal scores is all 1.
//
//nolint:gocritic // rangeValCopy
func normalize(items []recommend.ScoredItem) []float64 {
	lo, hi := items[0].Score, items[0].Score
	for _, it := range items {
		lo = min(lo, it.Score)
		hi = max(hi, it.Score)
	}
	out := make([]float64, len(items))
	for i, it := range items {
		if hi == lo {
			out[i] = 1
			continue
		}
		out[i] = (it.Score - lo) / (hi - lo)
	}
	return out
}

// buildSimilarityMatrix computes pairwise feature similarity.
func buildSimilarityMatrix(items []recommend.ScoredItem) [][]float64 {
	n := len(items)
	similarities := make([][]float64, n)
	for i := range similarities {
		similarities[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := similarity.FeatureSimilarity(items[i].Item.Features, items[j].Item.Features)
			similarities[i][j] = sim
			similarities[j][i] = sim
		}
	}
	return similarities
}

// dedupe keeps the first occurrence of each item ID.
//
//nolint:gocritic // rangeValCopy
func dedupe(items []recommend.ScoredItem) []recommend.ScoredItem {
	seen := make(map[int64]struct{}, len(items))
	out := items[:0:0]
	for _, it := range items {
		if _, ok := seen[it.Item.ID]; ok {
			continue
		}
		seen[it.Item.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)
