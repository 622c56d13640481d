// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package community

import (
	"fmt"

	"github.com/tomtom215/cinegraph/internal/graph"
	"github.com/tomtom215/cinegraph/internal/models"
)

// Collection and edge-shaping constants.
const (
	// CollectionEdgeWeight is added between every pair of movies that share
	// a collection before detection runs.
	CollectionEdgeWeight = 5.0

	DefaultEdgeLength   = 90.0
	DefaultEdgeStrength = 0.08

	intraLengthFactor   = 0.4
	intraStrengthFactor = 2.5
	interLengthFactor   = 2.5
	interStrengthFactor = 0.3
)

// AddCollectionEdges adds CollectionEdgeWeight between every pair of movie
// nodes with the same collection ID and returns the number of pairs
// touched. Existing edges gain the weight on top of their own.
func AddCollectionEdges(g *graph.Graph, nodes []models.Node) int {
	groups := make(map[int64][]string)
	var order []int64
	for i := range nodes {
		m := nodes[i].Movie()
		if nodes[i].Type != models.NodeMovie || m == nil || m.CollectionID == nil {
			continue
		}
		id := *m.CollectionID
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], nodes[i].ID)
	}

	added := 0
	for _, id := range order {
		movies := groups[id]
		for i := 0; i < len(movies); i++ {
			for j := i + 1; j < len(movies); j++ {
				if !g.Has(movies[i]) || !g.Has(movies[j]) {
					continue
				}
				g.AddEdge(movies[i], movies[j], CollectionEdgeWeight)
				added++
			}
		}
	}
	return added
}

// ApplyCommunityEdgeProperties shortens and stiffens edges inside a
// community and lengthens and loosens edges between communities. Edges
// with an endpoint outside every community are left alone.
func ApplyCommunityEdgeProperties(edges []models.Edge, assignment map[string]string) {
	for i := range edges {
		e := &edges[i]
		cs, okS := assignment[e.Source]
		ct, okT := assignment[e.Target]
		if !okS || !okT {
			continue
		}
		length := e.Length
		if length == 0 {
			length = DefaultEdgeLength
		}
		strength := e.Strength
		if strength == 0 {
			strength = DefaultEdgeStrength
		}
		if cs == ct {
			e.Length = length * intraLengthFactor
			e.Strength = strength * intraStrengthFactor
		} else {
			e.Length = length * interLengthFactor
			e.Strength = strength * interStrengthFactor
		}
	}
}

// Validate reports structural problems in a community result: empty
// communities, undersized communities and nodes claimed twice.
func Validate(result *models.CommunityResult) []error {
	if result == nil {
		return nil
	}
	var problems []error
	owner := make(map[string]string)
	for _, c := range result.Communities {
		if len(c.Nodes) == 0 {
			problems = append(problems, fmt.Errorf("community %s is empty", c.ID))
			continue
		}
		if len(c.Nodes) < MinCommunitySize {
			problems = append(problems, fmt.Errorf("community %s has %d members", c.ID, len(c.Nodes)))
		}
		for _, id := range c.Nodes {
			if prev, ok := owner[id]; ok {
				problems = append(problems, fmt.Errorf("node %s is in %s and %s", id, prev, c.ID))
				continue
			}
			owner[id] = c.ID
		}
	}
	return problems
}
