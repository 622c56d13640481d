// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package similarity

import (
	"math"
	"sort"

	"github.com/tomtom215/cinegraph/internal/ratings"
)

// Options bounds the pairwise matrix computation.
type Options struct {
	// Window is how many following users (in ID order) each user is compared
	// against. Default: 50.
	Window int

	// Threshold is the minimum |similarity| kept. Default: 0.2.
	Threshold float64
}

// DefaultOptions returns the default matrix options.
func DefaultOptions() Options {
	return Options{Window: 50, Threshold: 0.2}
}

// Pair is an unordered user pair with A < B.
type Pair struct {
	A, B  int64
	Score float64
}

// Matrix is a sparse symmetric user-user similarity matrix.
type Matrix struct {
	pairs     []Pair
	neighbors map[int64][]Pair
}

// BuildMatrix compares each user with the next Window users in ascending
// ID order and keeps pairs whose |similarity| reaches Threshold.
func BuildMatrix(m ratings.Matrix, fn VectorFunc, opts Options) *Matrix {
	if opts.Window <= 0 {
		opts.Window = DefaultOptions().Window
	}
	users := m.Users()
	out := &Matrix{neighbors: make(map[int64][]Pair)}

	for i, a := range users {
		end := i + opts.Window
		if end >= len(users) {
			end = len(users) - 1
		}
		for j := i + 1; j <= end; j++ {
			b := users[j]
			score := fn(m[a], m[b])
			if math.Abs(score) < opts.Threshold || score == 0 {
				continue
			}
			p := Pair{A: a, B: b, Score: score}
			out.pairs = append(out.pairs, p)
			out.neighbors[a] = append(out.neighbors[a], p)
			out.neighbors[b] = append(out.neighbors[b], p)
		}
	}
	return out
}

// Get returns the similarity of a and b regardless of order.
func (m *Matrix) Get(a, b int64) (float64, bool) {
	if a > b {
		a, b = b, a
	}
	for _, p := range m.neighbors[a] {
		if p.A == a && p.B == b {
			return p.Score, true
		}
	}
	return 0, false
}

// Pairs returns all kept pairs ordered by (A, B).
func (m *Matrix) Pairs() []Pair {
	return m.pairs
}

// Len returns the number of kept pairs.
func (m *Matrix) Len() int {
	return len(m.pairs)
}

// Neighbor is a similar user and the similarity score.
type Neighbor struct {
	UserID int64
	Score  float64
}

// Neighbors returns the users similar to u, strongest |score| first.
func (m *Matrix) Neighbors(u int64) []Neighbor {
	pairs := m.neighbors[u]
	out := make([]Neighbor, 0, len(pairs))
	for _, p := range pairs {
		other := p.A
		if other == u {
			other = p.B
		}
		out = append(out, Neighbor{UserID: other, Score: p.Score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].Score), math.Abs(out[j].Score)
		if ai != aj {
			return ai > aj
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
