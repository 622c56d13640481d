// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package models

import (
	"maps"
	"slices"
)

// Clone returns a copy of g that shares no mutable state with it: nodes,
// payloads, edges, stats, layout and analytics are all copied.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	out := *g
	out.Nodes = make([]Node, len(g.Nodes))
	for i := range g.Nodes {
		out.Nodes[i] = g.Nodes[i].clone()
	}
	out.Edges = slices.Clone(g.Edges)
	out.Stats.NodeCounts = maps.Clone(g.Stats.NodeCounts)
	out.Stats.EdgeCounts = maps.Clone(g.Stats.EdgeCounts)
	if g.Layout != nil {
		l := *g.Layout
		l.GravityCenters = maps.Clone(g.Layout.GravityCenters)
		out.Layout = &l
	}
	out.Analytics = g.Analytics.clone()
	return &out
}

func (n Node) clone() Node {
	n.Data = cloneData(n.Data)
	n.Centrality = clonePtr(n.Centrality)
	if n.Physics != nil {
		p := *n.Physics
		p.Position = clonePtr(p.Position)
		n.Physics = &p
	}
	return n
}

func cloneData(d NodeData) NodeData {
	switch v := d.(type) {
	case *MovieData:
		m := *v
		m.Keywords = slices.Clone(v.Keywords)
		m.CollectionID = clonePtr(v.CollectionID)
		m.PredictedScore = clonePtr(v.PredictedScore)
		return &m
	case *UserData:
		return clonePtr(v)
	case *GenreData:
		return clonePtr(v)
	case *CountryData:
		return clonePtr(v)
	case *DirectorData:
		return clonePtr(v)
	case *ActorData:
		return clonePtr(v)
	case *CrewData:
		return clonePtr(v)
	default:
		// value variants are already copies
		return d
	}
}

func (a Analytics) clone() Analytics {
	if a.Communities != nil {
		c := *a.Communities
		c.Communities = make([]Community, len(a.Communities.Communities))
		for i, com := range a.Communities.Communities {
			com.Nodes = slices.Clone(com.Nodes)
			c.Communities[i] = com
		}
		c.Assignment = maps.Clone(a.Communities.Assignment)
		c.Attempts = slices.Clone(a.Communities.Attempts)
		c.ModularityHistory = slices.Clone(a.Communities.ModularityHistory)
		a.Communities = &c
	}
	if a.Centrality != nil {
		c := *a.Centrality
		c.Measures = maps.Clone(a.Centrality.Measures)
		c.Fallbacks = slices.Clone(a.Centrality.Fallbacks)
		a.Centrality = &c
	}
	if a.Health != nil {
		h := *a.Health
		h.Issues = slices.Clone(a.Health.Issues)
		h.Recommendations = slices.Clone(a.Health.Recommendations)
		a.Health = &h
	}
	if a.TopInfluencers != nil {
		a.TopInfluencers = &TopInfluencers{
			Users:  slices.Clone(a.TopInfluencers.Users),
			Movies: slices.Clone(a.TopInfluencers.Movies),
		}
	}
	a.FailedStages = slices.Clone(a.FailedStages)
	return a
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
