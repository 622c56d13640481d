// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/cinegraph/internal/graph"
	"github.com/tomtom215/cinegraph/internal/models"
)

// Clustering is averaged over the first clusteringSample nodes once the
// graph reaches clusteringSampleFrom nodes.
const (
	clusteringSampleFrom = 1000
	clusteringSample     = 500
)

// Density returns the density metrics of g. Graphs with fewer than two
// nodes report zeros apart from the counts.
func Density(g *graph.Graph) models.DensityMetrics {
	n := g.Len()
	out := models.DensityMetrics{NodeCount: n, EdgeCount: g.EdgeCount()}
	if n < 2 {
		return out
	}

	degrees := make([]float64, n)
	for i := range degrees {
		d := g.Degree(i)
		degrees[i] = float64(d)
		out.MaxDegree = max(out.MaxDegree, d)
	}

	sample := n
	if n >= clusteringSampleFrom {
		sample = clusteringSample
	}

	out.Density = round(g.Density(), 4)
	out.AverageDegree = round(stat.Mean(degrees, nil), 2)
	out.ClusteringCoefficient = round(averageClustering(g, sample), 4)
	out.ConnectedComponents = g.ConnectedComponents()
	return out
}

// averageClustering is the mean unweighted local clustering coefficient of
// the first sample nodes. Nodes with fewer than two neighbours count as 0.
func averageClustering(g *graph.Graph, sample int) float64 {
	if sample == 0 {
		return 0
	}
	var total float64
	for i := 0; i < sample; i++ {
		nbs := g.Neighbors(i)
		k := len(nbs)
		if k < 2 {
			continue
		}
		links := 0
		for a := 0; a < k; a++ {
			for b := a + 1; b < k; b++ {
				if g.HasEdge(nbs[a].Index, nbs[b].Index) {
					links++
				}
			}
		}
		total += 2 * float64(links) / float64(k*(k-1))
	}
	return total / float64(sample)
}
