// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"math"
	"regexp"
	"slices"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Content attribute weights. They sum to 1.
const (
	contentGenre      = 0.4
	contentDirector   = 0.25
	contentCast       = 0.2
	contentCrew       = 0.1
	contentCollection = 0.05

	sequelPenalty = 0.05
)

const roleDirector = "Director"

// sequelTitle matches titles that look like a numbered follow-up.
var sequelTitle = regexp.MustCompile(`\b(2|3|4|5|6|7|8|9|II|III|IV|V|VI|VII|VIII|IX|Part\s+\d+)\b`)

// ContentConfig tunes the content-based half of personalized scoring.
type ContentConfig struct {
	// Weight is the share of content similarity in the blended relevance.
	// Zero ranks by the model alone.
	Weight float64 `json:"weight"`

	// LikedThreshold is the rating at which a rated movie joins the
	// user's profile.
	LikedThreshold float64 `json:"liked_threshold"`

	// TopCast is how many billed cast members are compared.
	TopCast int `json:"top_cast"`
}

// DefaultContentConfig blends 65% model and 35% content.
func DefaultContentConfig() ContentConfig {
	return ContentConfig{Weight: 0.35, LikedThreshold: 7, TopCast: 3}
}

// ContentProfile holds the attributes of the movies a user liked.
type ContentProfile struct {
	topCast     int
	genres      map[int64]bool
	directors   map[int64]bool
	cast        map[int64]bool
	crew        map[int64]bool
	collections map[int64]bool
}

// NewContentProfile builds a profile from liked movies. It returns nil when
// liked is empty.
func NewContentProfile(liked []models.Movie, topCast int) *ContentProfile {
	if len(liked) == 0 {
		return nil
	}
	p := &ContentProfile{
		topCast:     topCast,
		genres:      make(map[int64]bool),
		directors:   make(map[int64]bool),
		cast:        make(map[int64]bool),
		crew:        make(map[int64]bool),
		collections: make(map[int64]bool),
	}
	for i := range liked {
		m := &liked[i]
		for _, g := range m.Genres {
			p.genres[g.ID] = true
		}
		for id := range directorIDs(m) {
			p.directors[id] = true
		}
		for _, id := range topCastIDs(m, topCast) {
			p.cast[id] = true
		}
		for id := range crewIDs(m) {
			p.crew[id] = true
		}
		if m.CollectionID != nil {
			p.collections[*m.CollectionID] = true
		}
	}
	return p
}

// Score rates how closely m matches the profile. Each attribute contributes
// its weight times the share of the profile's values that m carries. Likely
// sequels lose a small penalty, so the result may be slightly negative.
func (p *ContentProfile) Score(m *models.Movie) float64 {
	if p == nil {
		return 0
	}
	genres := make(map[int64]bool, len(m.Genres))
	for _, g := range m.Genres {
		genres[g.ID] = true
	}
	cast := make(map[int64]bool, p.topCast)
	for _, id := range topCastIDs(m, p.topCast) {
		cast[id] = true
	}

	score := contentGenre*overlap(p.genres, genres) +
		contentDirector*overlap(p.directors, directorIDs(m)) +
		contentCast*overlap(p.cast, cast) +
		contentCrew*overlap(p.crew, crewIDs(m))
	if m.CollectionID != nil && p.collections[*m.CollectionID] {
		score += contentCollection
	}
	if sequelTitle.MatchString(m.Title) {
		score -= sequelPenalty
	}
	return score
}

// overlap is the share of profile values present in candidate.
func overlap(profile, candidate map[int64]bool) float64 {
	if len(profile) == 0 {
		return 0
	}
	shared := 0
	for id := range candidate {
		if profile[id] {
			shared++
		}
	}
	return float64(shared) / float64(len(profile))
}

// blend mixes a 0-10 prediction with a content score. Negative content
// scores count as no match.
func blend(predicted, content, weight float64) float64 {
	return (1-weight)*predicted + weight*10*math.Max(0, content)
}

func directorIDs(m *models.Movie) map[int64]bool {
	ids := make(map[int64]bool, len(m.Directors))
	for _, d := range m.Directors {
		ids[d.ID] = true
	}
	for _, c := range m.Crew {
		if c.Role == roleDirector {
			ids[c.Person.ID] = true
		}
	}
	return ids
}

func crewIDs(m *models.Movie) map[int64]bool {
	ids := make(map[int64]bool, len(m.Crew))
	for _, c := range m.Crew {
		if c.Role != roleDirector {
			ids[c.Person.ID] = true
		}
	}
	return ids
}

// topCastIDs returns the first n cast members by billing order.
func topCastIDs(m *models.Movie, n int) []int64 {
	credits := slices.Clone(m.Cast)
	slices.SortStableFunc(credits, func(a, b models.CastCredit) int {
		return a.Order - b.Order
	})
	ids := make([]int64, 0, min(n, len(credits)))
	for _, c := range credits {
		if len(ids) == n {
			break
		}
		ids = append(ids, c.Person.ID)
	}
	return ids
}
