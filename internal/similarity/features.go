// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package similarity

import "github.com/tomtom215/cinegraph/internal/models"

// Feature weights for item-item similarity.
const (
	GenreWeight    = 0.5
	LanguageWeight = 0.2
	RuntimeWeight  = 0.15
	DecadeWeight   = 0.15
)

// Runtime buckets.
const (
	RuntimeShort    = "short"
	RuntimeStandard = "standard"
	RuntimeLong     = "long"
	RuntimeEpic     = "epic"
)

// ItemFeatures are the content attributes compared by FeatureSimilarity.
type ItemFeatures struct {
	Genres        []string `json:"genres"`
	Language      string   `json:"language"`
	RuntimeBucket string   `json:"runtime_bucket"`
	Decade        int      `json:"decade"`
}

// FeaturesOf extracts ItemFeatures from a catalog movie.
func FeaturesOf(m *models.Movie) ItemFeatures {
	return ItemFeatures{
		Genres:        m.GenreNames(),
		Language:      m.Language,
		RuntimeBucket: RuntimeBucket(m.RuntimeMinutes),
		Decade:        Decade(m.Year),
	}
}

// FeatureSimilarity is 0.5 genre Jaccard + 0.2 same language + 0.15 same
// runtime bucket + 0.15 same decade. Unknown attributes never match.
func FeatureSimilarity(a, b ItemFeatures) float64 {
	sim := GenreWeight * Jaccard(a.Genres, b.Genres)
	if a.Language != "" && a.Language == b.Language {
		sim += LanguageWeight
	}
	if a.RuntimeBucket != "" && a.RuntimeBucket == b.RuntimeBucket {
		sim += RuntimeWeight
	}
	if a.Decade != 0 && a.Decade == b.Decade {
		sim += DecadeWeight
	}
	return sim
}

// RuntimeBucket classifies a running time in minutes. Unknown runtimes
// count as standard.
func RuntimeBucket(minutes int) string {
	switch {
	case minutes <= 0:
		return RuntimeStandard
	case minutes <= 90:
		return RuntimeShort
	case minutes <= 120:
		return RuntimeStandard
	case minutes <= 150:
		return RuntimeLong
	default:
		return RuntimeEpic
	}
}

// Decade returns the decade of year (1994 -> 1990), or 0 for unknown years.
func Decade(year int) int {
	if year <= 0 {
		return 0
	}
	return year / 10 * 10
}
