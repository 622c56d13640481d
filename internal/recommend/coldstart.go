// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/cinegraph/internal/similarity"
)

// Cold-start constants.
const (
	// PriorStrength is the number of pseudo-votes at the global mean that
	// shrink an item's external vote average.
	PriorStrength = 300.0

	// PopularVoteCount is the vote count above which the popularity prior
	// outweighs the genre signal.
	PopularVoteCount = 50

	// MinGenreOverlap is the genre-set Jaccard needed to borrow biases from
	// items without an exact genre match.
	MinGenreOverlap = 0.5

	popularityWeightHigh = 0.6
	popularityWeightLow  = 0.3
)

// genreSet is the learned-bias total of items sharing one genre set.
type genreSet struct {
	genres []string
	sum    float64
	count  int
}

// genreIndex groups trained items by their exact (sorted) genre set.
type genreIndex struct {
	byKey map[string]*genreSet
	sets  []*genreSet
}

func newGenreIndex(itemBiases map[int64]float64, itemGenres map[int64][]string) genreIndex {
	idx := genreIndex{byKey: make(map[string]*genreSet)}
	items := make([]int64, 0, len(itemBiases))
	for item := range itemBiases {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	for _, item := range items {
		bias := itemBiases[item]
		genres := itemGenres[item]
		if len(genres) == 0 {
			continue
		}
		sorted := normalizeGenres(genres)
		key := strings.Join(sorted, "|")
		s, ok := idx.byKey[key]
		if !ok {
			s = &genreSet{genres: sorted}
			idx.byKey[key] = s
		}
		s.sum += bias
		s.count++
	}
	keys := make([]string, 0, len(idx.byKey))
	for k := range idx.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		idx.sets = append(idx.sets, idx.byKey[k])
	}
	return idx
}

// signal returns the mean learned bias of items with the same genre set,
// falling back to items whose genre set overlaps by MinGenreOverlap or more.
func (g genreIndex) signal(genres []string) (float64, bool) {
	if len(genres) == 0 {
		return 0, false
	}
	sorted := normalizeGenres(genres)
	if s, ok := g.byKey[strings.Join(sorted, "|")]; ok {
		return s.sum / float64(s.count), true
	}

	var sum float64
	var count int
	for _, s := range g.sets {
		if similarity.Jaccard(sorted, s.genres) >= MinGenreOverlap {
			sum += s.sum
			count += s.count
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// ColdItemBias estimates the item bias of an item the model was not
// trained on. The popularity prior shrinks the external vote average
// towards the global mean; the genre signal borrows learned biases from
// similar items. Either signal is used alone when the other is missing.
func (m *Model) ColdItemBias(info ItemInfo) float64 {
	gm := m.a.GlobalMean

	pop, hasPop := 0.0, info.Votes.VoteCount > 0
	if hasPop {
		n := float64(info.Votes.VoteCount)
		prior := (PriorStrength*gm + info.Votes.VoteAverage/displayScale*n) / (PriorStrength + n)
		pop = prior - gm
	}
	genre, hasGenre := m.genres.signal(info.Genres)

	switch {
	case hasPop && hasGenre:
		w := popularityWeightLow
		if info.Votes.VoteCount > PopularVoteCount {
			w = popularityWeightHigh
		}
		return w*pop + (1-w)*genre
	case hasPop:
		return pop
	case hasGenre:
		return genre
	}
	return 0
}

func normalizeGenres(genres []string) []string {
	seen := make(map[string]bool, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}
