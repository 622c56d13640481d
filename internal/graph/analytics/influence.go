// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Influence component weights on the 0-100 scale.
const (
	weightCentrality = 40.0
	weightActivity   = 30.0
	weightQuality    = 20.0
	weightRecency    = 10.0
)

// maxRatingVariance is the variance at which consistency reaches 0.
const maxRatingVariance = 25.0

func reviewCount(n *models.Node) int {
	switch d := n.Data.(type) {
	case *models.UserData:
		return d.ReviewCount
	case *models.MovieData:
		return d.ReviewCount
	}
	return 0
}

// influence scores every node of in.
func (a *Analyzer) influence(in Input, act *activity, now time.Time) map[string]float64 {
	busiest := map[models.NodeType]int{}
	for i := range in.Nodes {
		n := &in.Nodes[i]
		busiest[n.Type] = max(busiest[n.Type], reviewCount(n), 1)
	}

	scores := make(map[string]float64, len(in.Nodes))
	for i := range in.Nodes {
		n := &in.Nodes[i]
		reviews := reviewCount(n)
		if n.Type == models.NodeUser && reviews < a.cfg.MinReviewsForInfluence {
			scores[n.ID] = 0
			continue
		}

		var centrality float64
		if in.Centrality != nil {
			if m, ok := in.Centrality.Measures[n.ID]; ok {
				centrality = m.DegreeCentrality*0.3 + m.Betweenness*0.3 + m.Closeness*0.2 + m.Eigenvector*0.2
			}
		}

		var activityScore float64
		if n.Type == models.NodeUser || n.Type == models.NodeMovie {
			activityScore = math.Min(float64(reviews)/float64(busiest[n.Type]), 1)
		}

		var quality, recency float64
		if s := act.of(n); s != nil {
			if avg := s.mean(); avg > 0 {
				consistency := 1 - math.Min(s.variance()/maxRatingVariance, 1)
				quality = avg/10*0.6 + consistency*0.4
			}
			recency = a.recency(s.last, now)
		}

		scores[n.ID] = round(centrality*weightCentrality+activityScore*weightActivity+
			quality*weightQuality+recency*weightRecency, 2)
	}
	return scores
}

// recency is 1 for activity today, decaying to 0 at the influence window.
func (a *Analyzer) recency(last, now time.Time) float64 {
	if last.IsZero() {
		return 0
	}
	days := math.Max(0, math.Floor(now.Sub(last).Hours()/24))
	windowDays := a.cfg.InfluenceWindow.Hours() / 24
	return math.Max(0, 1-math.Pow(days/windowDays, a.cfg.InfluenceDecay))
}

// topInfluencers ranks the nodes of type typ by score, highest first with
// ties broken by node ID, and returns at most n. Synthetic prediction nodes
// are not ranked.
func topInfluencers(nodes []models.Node, scores map[string]float64, act *activity, typ models.NodeType, n int) []models.Influencer {
	out := []models.Influencer{}
	for i := range nodes {
		node := &nodes[i]
		if node.Type != typ {
			continue
		}
		if m := node.Movie(); m != nil && m.IsPrediction {
			continue
		}
		score, ok := scores[node.ID]
		if !ok {
			continue
		}
		inf := models.Influencer{
			ID:             node.ID,
			Label:          node.Label,
			Type:           node.Type,
			InfluenceScore: score,
			ReviewCount:    reviewCount(node),
		}
		if s := act.of(node); s != nil && s.count > 0 {
			inf.AverageRating = round(s.mean(), 2)
		} else if m := node.Movie(); m != nil {
			inf.AverageRating = m.Rating
		}
		out = append(out, inf)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].InfluenceScore != out[j].InfluenceScore {
			return out[i].InfluenceScore > out[j].InfluenceScore
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
