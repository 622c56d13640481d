// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package layout

import (
	"strings"

	"github.com/tomtom215/cinegraph/internal/models"
)

// massMultipliers scale node mass by type. Heavier types move less.
var massMultipliers = map[models.NodeType]float64{
	models.NodeUser:     1.2,
	models.NodeMovie:    1.0,
	models.NodeGenre:    0.8,
	models.NodeCountry:  0.8,
	models.NodeDirector: 1.1,
	models.NodeActor:    0.7,
	models.NodeCrew:     0.6,
}

// repulsionMultipliers scale node repulsion by type.
var repulsionMultipliers = map[models.NodeType]float64{
	models.NodeUser:     1.3,
	models.NodeMovie:    1.0,
	models.NodeGenre:    1.2,
	models.NodeCountry:  1.2,
	models.NodeDirector: 1.1,
	models.NodeActor:    0.9,
	models.NodeCrew:     0.9,
}

// GravityCenters places each node type in its own region of the canvas.
var GravityCenters = map[models.NodeType]models.GravityCenter{
	models.NodeUser:     {X: -400, Y: -300, Strength: 0.8},
	models.NodeMovie:    {X: 400, Y: -300, Strength: 1.0},
	models.NodeGenre:    {X: -400, Y: 400, Strength: 0.6},
	models.NodeCountry:  {X: 400, Y: 400, Strength: 0.6},
	models.NodeDirector: {X: 0, Y: -400, Strength: 0.7},
	models.NodeActor:    {X: -200, Y: 0, Strength: 0.5},
	models.NodeCrew:     {X: 200, Y: 0, Strength: 0.5},
}

// EdgeLengths are the spring rest lengths by edge type.
var EdgeLengths = map[models.EdgeType]float64{
	models.EdgePrediction:            120,
	models.EdgeSimilarity:            100,
	models.EdgeUserGenreAffinity:     180,
	models.EdgeUserCountryAffinity:   190,
	models.EdgeActorGenreAffinity:    160,
	models.EdgeDirectorGenreAffinity: 160,
	models.EdgeReview:                80,
	models.EdgeOrigin:                130,
	models.EdgeGenre:                 125,
	models.EdgeDirectedBy:            95,
	models.EdgeActedIn:               100,
	models.EdgeCrew:                  105,
}

// DefaultEdgeLength applies to edge types missing from EdgeLengths.
const DefaultEdgeLength = 90.0

// Spring strengths by edge type.
const (
	strengthPrediction = 0.3
	strengthSimilarity = 0.6
	strengthAffinity   = 0.4
	strengthReview     = 0.8
	strengthDefault    = 0.5
)

// EdgeStyle is the default colour and opacity for an edge type.
type EdgeStyle struct {
	Color   string
	Opacity float64
}

// EdgeStyles are applied to edges that arrive without a colour.
var EdgeStyles = map[models.EdgeType]EdgeStyle{
	models.EdgeReview:                {"#4299E1", 0.6},
	models.EdgeSimilarity:            {"#38B2AC", 0.5},
	models.EdgePrediction:            {"#FF6B6B", 0.6},
	models.EdgeOrigin:                {"#48BB78", 0.4},
	models.EdgeGenre:                 {"#9F7AEA", 0.4},
	models.EdgeDirectedBy:            {"#ED8936", 0.5},
	models.EdgeActedIn:               {"#FFD700", 0.35},
	models.EdgeCrew:                  {"#00CED1", 0.35},
	models.EdgeUserGenreAffinity:     {"#6B46C1", 0.35},
	models.EdgeUserCountryAffinity:   {"#2F855A", 0.35},
	models.EdgeActorGenreAffinity:    {"#B794F4", 0.32},
	models.EdgeDirectorGenreAffinity: {"#D69E2E", 0.32},
	models.EdgeActorCountryAffinity:  {"#68D391", 0.30},
	models.EdgeDirCountryAffinity:    {"#ED8936", 0.30},
}

// EdgeLength returns the rest length for t.
func EdgeLength(t models.EdgeType) float64 {
	if l, ok := EdgeLengths[t]; ok {
		return l
	}
	return DefaultEdgeLength
}

// EdgeStrength returns the spring strength for t. Every affinity type
// shares one strength.
func EdgeStrength(t models.EdgeType) float64 {
	switch {
	case strings.Contains(string(t), "affinity"):
		return strengthAffinity
	case t == models.EdgePrediction:
		return strengthPrediction
	case t == models.EdgeSimilarity:
		return strengthSimilarity
	case t == models.EdgeReview:
		return strengthReview
	}
	return strengthDefault
}

func gravityCenter(t models.NodeType) models.GravityCenter {
	if gc, ok := GravityCenters[t]; ok {
		return gc
	}
	return GravityCenters[models.NodeMovie]
}

func multiplier(table map[models.NodeType]float64, t models.NodeType) float64 {
	if m, ok := table[t]; ok {
		return m
	}
	return 1
}
