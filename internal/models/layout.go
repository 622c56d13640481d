// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package models

// Point is a 2D coordinate in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GravityCenter is an attraction point for one node type.
type GravityCenter struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Strength float64 `json:"strength"`
}

// NodePhysics carries per-node force-atlas hints.
type NodePhysics struct {
	Mass            float64 `json:"mass"`
	Repulsion       float64 `json:"repulsion"`
	GravityCenter   Point   `json:"gravity_center"`
	GravityStrength float64 `json:"gravity_strength"`
	CentralGravity  float64 `json:"central_gravity"`
	DampingFactor   float64 `json:"damping_factor"`
	Preferred       Point   `json:"preferred_position"`
	IsHub           bool    `json:"is_hub,omitempty"`
	IsSuperHub      bool    `json:"is_super_hub,omitempty"`

	// Position is the seeded initial position (community layout only)
	Position *Point `json:"position,omitempty"`
}

// LayoutConfig holds the global simulation parameters for a renderer.
type LayoutConfig struct {
	Algorithm      string                     `json:"algorithm"`
	GravityCenters map[NodeType]GravityCenter `json:"gravity_centers"`

	BaseRepulsion           float64 `json:"base_repulsion"`
	SpringConstant          float64 `json:"spring_constant"`
	Damping                 float64 `json:"damping"`
	Theta                   float64 `json:"theta"`
	GravityFalloff          float64 `json:"gravity_falloff"`
	MaxVelocity             float64 `json:"max_velocity"`
	MinVelocity             float64 `json:"min_velocity"`
	Timestep                float64 `json:"timestep"`
	StabilizationIterations int     `json:"stabilization_iterations"`
	AvoidOverlap            float64 `json:"avoid_overlap"`
	GravityBalance          float64 `json:"gravity_balance"`
	TypeSeparationForce     float64 `json:"type_separation_force"`
	HubAntiClustering       float64 `json:"hub_anti_clustering"`
	AdaptiveGravity         bool    `json:"adaptive_gravity"`
	DensityCompensation     float64 `json:"density_compensation"`
	SizeCompensation        float64 `json:"size_compensation"`
	NumCommunities          int     `json:"num_communities"`

	UseWebGL       bool `json:"use_webgl"`
	EdgeBundling   bool `json:"edge_bundling"`
	PhysicsEnabled bool `json:"physics_enabled"`
}
