// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package analytics

import (
	"math"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Health status labels.
const (
	StatusExcellent = "excellent"
	StatusGood      = "good"
	StatusFair      = "fair"
	StatusPoor      = "poor"
)

// Growth summarises last week's ratings against the week before.
type Growth struct {
	Recent int
	Prior  int
}

// Health scores a graph from its density, engagement and growth.
func Health(density models.DensityMetrics, engagement models.EngagementMetrics, growth Growth) *models.NetworkHealth {
	h := &models.NetworkHealth{
		Issues:          []string{},
		Recommendations: []string{},
		Density:         density,
		Engagement:      engagement,
		RecentReviews:   growth.Recent,
		PriorReviews:    growth.Prior,
	}

	switch d := density.Density; {
	case d < 0.05:
		h.ConnectivityHealth = d * 200
		h.Issues = append(h.Issues, "low graph density, users may not be well connected")
		h.Recommendations = append(h.Recommendations, "encourage more ratings of shared movies")
	case d > 0.7:
		h.ConnectivityHealth = 30
		h.Issues = append(h.Issues, "very high density, the user base may be small")
	default:
		h.ConnectivityHealth = math.Min(30, d*60)
	}

	h.EngagementHealth = math.Min(40, engagement.EngagementScore*0.4)
	if engagement.EngagementRate < 0.2 {
		h.Issues = append(h.Issues, "low engagement, fewer than 20% of users are active")
		h.Recommendations = append(h.Recommendations, "re-engage inactive users")
	}

	h.GrowthHealth = growthHealth(growth, h)

	overall := h.ConnectivityHealth + h.EngagementHealth + h.GrowthHealth
	h.OverallHealth = round(overall, 2)
	h.ConnectivityHealth = round(h.ConnectivityHealth, 2)
	h.EngagementHealth = round(h.EngagementHealth, 2)
	h.Status = status(overall)
	return h
}

func growthHealth(g Growth, h *models.NetworkHealth) float64 {
	if g.Prior == 0 {
		return 15
	}
	rate := float64(g.Recent-g.Prior) / float64(g.Prior)
	switch {
	case rate > 0.1:
		return 30
	case rate > 0:
		return 20
	case rate > -0.2:
		h.Issues = append(h.Issues, "rating activity is declining")
		h.Recommendations = append(h.Recommendations, "add new movies to re-engage users")
		return 10
	default:
		h.Issues = append(h.Issues, "significant decline in rating activity")
		h.Recommendations = append(h.Recommendations, "investigate why users stopped rating")
		return 0
	}
}

func status(overall float64) string {
	switch {
	case overall >= 80:
		return StatusExcellent
	case overall >= 60:
		return StatusGood
	case overall >= 40:
		return StatusFair
	default:
		return StatusPoor
	}
}
