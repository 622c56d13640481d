// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package layout computes multi-gravity force-atlas hints for a renderer.
//
// Nothing is simulated here. Each node gets a mass, repulsion, damping and
// a type-specific gravity centre so that users, movies, genres and people
// settle in separate regions; each edge gets a rest length and spring
// strength; and a global configuration is derived from graph density. When
// nodes carry community labels, seeded initial positions place every
// community on its own arc of a circle.
//
// Apply is a pure transform: its inputs are not modified and all randomness
// comes from the seed argument.
package layout

import (
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/graph/community"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
)

// Algorithm is reported in every LayoutConfig.
const Algorithm = "multigravity_force_atlas"

// Degree thresholds and node-level constants.
const (
	HubDegree      = 15
	SuperHubDegree = 30

	hubCentralGravity    = 0.001
	normalCentralGravity = 0.005
	preferredJitter      = 50.0

	superHubRepulsion = 1.5
	superHubGravity   = 0.3
	superHubMass      = 1.3

	communityRadius     = 600.0
	communityRadiusStep = 50.0
	communityJitter     = 80.0
	pushMinDegree       = 5
	pushPerDegree       = 15.0
	pushMax             = 150.0
)

// Edge length modifiers.
const (
	sameTypeFactor       = 0.7
	degreeLengthFactor   = 0.02
	longEdgeFactor       = 1.5
	maxStabilization     = 1500
	stabilizationPerNode = 5
)

// Engine applies layout hints.
type Engine struct {
	logger zerolog.Logger
}

// New creates a layout engine.
func New() *Engine {
	return &Engine{logger: logging.With().Str("component", "layout").Logger()}
}

// Apply returns copies of nodes and edges annotated with physics hints,
// plus the global simulation configuration.
func (e *Engine) Apply(nodes []models.Node, edges []models.Edge, seed uint64) ([]models.Node, []models.Edge, *models.LayoutConfig) {
	rng := rand.New(rand.NewPCG(seed, seed))

	degree := make(map[string]int, len(nodes))
	for i := range edges {
		degree[edges[i].Source]++
		degree[edges[i].Target]++
	}
	n := len(nodes)
	density := 0.0
	if n > 1 {
		density = 2 * float64(len(edges)) / float64(n*(n-1))
	}

	outNodes := make([]models.Node, n)
	copy(outNodes, nodes)
	for i := range outNodes {
		outNodes[i].Physics = nodePhysics(&outNodes[i], degree[outNodes[i].ID], density, rng)
	}
	numCommunities := placeCommunities(outNodes, degree, rng)

	outEdges := e.edgeHints(outNodes, edges, degree)

	cfg := &models.LayoutConfig{
		Algorithm:               Algorithm,
		GravityCenters:          gravityCenters(),
		BaseRepulsion:           -80 - density*100,
		SpringConstant:          math.Max(0.05, 0.15-density*0.08),
		Damping:                 0.45,
		Theta:                   0.4,
		GravityFalloff:          2.0,
		MaxVelocity:             25,
		MinVelocity:             0.05,
		Timestep:                0.35,
		StabilizationIterations: min(maxStabilization, n*stabilizationPerNode),
		AvoidOverlap:            math.Min(0.9, 0.4+density*0.5),
		GravityBalance:          0.7,
		TypeSeparationForce:     2.0,
		HubAntiClustering:       1.5,
		AdaptiveGravity:         true,
		DensityCompensation:     density,
		SizeCompensation:        math.Min(2.0, float64(n)/100),
		NumCommunities:          numCommunities,
		UseWebGL:                n > 500,
		EdgeBundling:            len(edges) > 1000,
		PhysicsEnabled:          n <= 1000,
	}

	e.logger.Debug().
		Int("nodes", n).
		Int("edges", len(edges)).
		Float64("density", density).
		Int("communities", numCommunities).
		Msg("layout applied")
	return outNodes, outEdges, cfg
}

func nodePhysics(node *models.Node, deg int, density float64, rng *rand.Rand) *models.NodePhysics {
	gc := gravityCenter(node.Type)
	mass := math.Max(1, node.Size/10) * multiplier(massMultipliers, node.Type)
	repulsion := (-50 - 5*float64(deg)) * multiplier(repulsionMultipliers, node.Type)

	p := &models.NodePhysics{
		Mass:            mass,
		Repulsion:       repulsion,
		GravityCenter:   models.Point{X: gc.X, Y: gc.Y},
		GravityStrength: gc.Strength * (1 - density*0.5),
		CentralGravity:  normalCentralGravity,
		DampingFactor:   0.5 + math.Min(0.3, float64(deg)*0.01),
		Preferred: models.Point{
			X: gc.X + jitter(rng, preferredJitter),
			Y: gc.Y + jitter(rng, preferredJitter),
		},
	}
	if deg > HubDegree {
		p.CentralGravity = hubCentralGravity
		p.IsHub = true
	}
	if deg > SuperHubDegree {
		p.Repulsion *= superHubRepulsion
		p.GravityStrength = gc.Strength * superHubGravity
		p.Mass *= superHubMass
		p.IsSuperHub = true
	}
	return p
}

// placeCommunities seeds positions for nodes in a community and returns the
// number of communities. Communities are ordered by first appearance.
func placeCommunities(nodes []models.Node, degree map[string]int, rng *rand.Rand) int {
	var order []string
	seen := make(map[string]bool)
	for i := range nodes {
		c := nodes[i].Community
		if c != "" && !seen[c] {
			seen[c] = true
			order = append(order, c)
		}
	}
	count := len(order)
	if count == 0 {
		return 0
	}

	radius := communityRadius + communityRadiusStep*float64(count)
	centers := make(map[string]models.Point, count)
	for idx, c := range order {
		angle := 2 * math.Pi * float64(idx) / float64(count)
		centers[c] = models.Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	}

	for i := range nodes {
		center, ok := centers[nodes[i].Community]
		if !ok {
			continue
		}
		deg := degree[nodes[i].ID]
		jx := jitter(rng, communityJitter)
		jy := jitter(rng, communityJitter)
		push := 0.0
		if deg > pushMinDegree {
			push = math.Min(pushPerDegree*float64(deg), pushMax)
		}
		angle := rng.Float64() * 2 * math.Pi
		nodes[i].Physics.Position = &models.Point{
			X: center.X + jx + push*math.Cos(angle),
			Y: center.Y + jy + push*math.Sin(angle),
		}
	}
	return count
}

func (e *Engine) edgeHints(nodes []models.Node, edges []models.Edge, degree map[string]int) []models.Edge {
	types := make(map[string]models.NodeType, len(nodes))
	assignment := make(map[string]string)
	for i := range nodes {
		types[nodes[i].ID] = nodes[i].Type
		if nodes[i].Community != "" {
			assignment[nodes[i].ID] = nodes[i].Community
		}
	}

	out := make([]models.Edge, len(edges))
	copy(out, edges)
	for i := range out {
		edge := &out[i]
		length := edge.Length
		if length == 0 {
			length = EdgeLength(edge.Type)
		}
		st, okS := types[edge.Source]
		tt, okT := types[edge.Target]
		if okS && okT && st == tt {
			length *= sameTypeFactor
		}
		length *= 1 + degreeLengthFactor*float64(max(degree[edge.Source], degree[edge.Target]))
		if edge.Type == models.EdgePrediction || edge.Type == models.EdgeSimilarity {
			length *= longEdgeFactor
		}
		edge.Length = length
		edge.Strength = EdgeStrength(edge.Type)

		if edge.Color == "" {
			if style, ok := EdgeStyles[edge.Type]; ok {
				edge.Color = style.Color
				edge.Opacity = style.Opacity
			}
		}
	}

	if len(assignment) > 0 {
		community.ApplyCommunityEdgeProperties(out, assignment)
	}
	return out
}

func gravityCenters() map[models.NodeType]models.GravityCenter {
	out := make(map[models.NodeType]models.GravityCenter, len(GravityCenters))
	for t, gc := range GravityCenters {
		out[t] = gc
	}
	return out
}

// jitter returns a uniform value in [-r, r).
func jitter(rng *rand.Rand, r float64) float64 {
	return (rng.Float64()*2 - 1) * r
}
