// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package community

import (
	"math"

	"github.com/tomtom215/cinegraph/internal/graph"
)

// separabilityIsolated is reported when a community has internal but no
// external weight.
const separabilityIsolated = 10.0

// Quality holds the per-community quality metrics.
type Quality struct {
	Conductance  float64
	Clustering   float64
	Separability float64
	Score        float64
}

// MeasureQuality computes conductance, mean weighted clustering and
// separability for members, and blends them into a 0-100 score weighted
// 40/30/30.
func MeasureQuality(g *graph.Graph, members []int) Quality {
	in := make(map[int]bool, len(members))
	for _, m := range members {
		in[m] = true
	}

	var internal, external, touching float64
	for _, u := range members {
		for _, nb := range g.Neighbors(u) {
			if in[nb.Index] {
				if u < nb.Index {
					internal += nb.Weight
				}
			} else {
				external += nb.Weight
			}
			touching += nb.Weight
		}
	}

	var conductance float64
	if touching > 0 {
		conductance = external / touching
	}

	var separability float64
	switch {
	case external > 0:
		separability = internal / external
	case internal > 0:
		separability = separabilityIsolated
	default:
		separability = 1
	}

	clustering := averageClustering(g, members, in)

	score := ((1-math.Min(conductance, 1))*0.4 +
		clustering*0.3 +
		math.Min(separability/separabilityIsolated, 1)*0.3) * 100

	return Quality{
		Conductance:  round(conductance, 4),
		Clustering:   round(clustering, 4),
		Separability: round(separability, 2),
		Score:        round(score, 1),
	}
}

// averageClustering is the mean weighted clustering coefficient over the
// induced subgraph. Each triangle contributes the geometric mean of its
// edge weights normalised by the subgraph's maximum weight.
func averageClustering(g *graph.Graph, members []int, in map[int]bool) float64 {
	if len(members) == 0 {
		return 0
	}

	maxW := 0.0
	for _, u := range members {
		for _, nb := range g.Neighbors(u) {
			if in[nb.Index] && nb.Weight > maxW {
				maxW = nb.Weight
			}
		}
	}
	if maxW == 0 {
		maxW = 1
	}

	var total float64
	for _, u := range members {
		var local []graph.Neighbor
		for _, nb := range g.Neighbors(u) {
			if in[nb.Index] {
				local = append(local, nb)
			}
		}
		d := len(local)
		if d < 2 {
			continue
		}
		var tri float64
		for a := 0; a < d; a++ {
			for b := a + 1; b < d; b++ {
				wvw := g.Weight(local[a].Index, local[b].Index)
				if wvw == 0 && !g.HasEdge(local[a].Index, local[b].Index) {
					continue
				}
				tri += math.Cbrt((local[a].Weight / maxW) * (local[b].Weight / maxW) * (wvw / maxW))
			}
		}
		total += 2 * tri / float64(d*(d-1))
	}
	return total / float64(len(members))
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
