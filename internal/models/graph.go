// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package models

import "time"

// NodeType identifies the kind of entity a graph node represents.
type NodeType string

// Node types produced by the graph builder.
const (
	NodeUser     NodeType = "user"
	NodeMovie    NodeType = "movie"
	NodeGenre    NodeType = "genre"
	NodeCountry  NodeType = "country"
	NodeDirector NodeType = "director"
	NodeActor    NodeType = "actor"
	NodeCrew     NodeType = "crew"
)

// EdgeType identifies the relationship an edge represents.
type EdgeType string

// Edge types produced by the graph builder.
const (
	EdgeReview                EdgeType = "review"
	EdgeGenre                 EdgeType = "genre"
	EdgeOrigin                EdgeType = "origin"
	EdgeDirectedBy            EdgeType = "directed_by"
	EdgeActedIn               EdgeType = "acted_in"
	EdgeCrew                  EdgeType = "crew"
	EdgeSimilarity            EdgeType = "similarity"
	EdgePrediction            EdgeType = "prediction"
	EdgeActorGenreAffinity    EdgeType = "actor_genre_affinity"
	EdgeDirectorGenreAffinity EdgeType = "director_genre_affinity"
	EdgeActorCountryAffinity  EdgeType = "actor_country_affinity"
	EdgeDirCountryAffinity    EdgeType = "director_country_affinity"
	EdgeUserGenreAffinity     EdgeType = "user_genre_affinity"
	EdgeUserCountryAffinity   EdgeType = "user_country_affinity"
)

// NodeData is the type-specific payload of a Node. The set of
// implementations is closed to this package.
type NodeData interface {
	nodeType() NodeType
}

// UserData is the payload of a user node.
type UserData struct {
	UserID      int64 `json:"user_id"`
	ReviewCount int   `json:"review_count"`
}

// MovieData is the payload of a movie node, including prediction nodes.
type MovieData struct {
	MovieID     int64    `json:"movie_id"`
	ReviewCount int      `json:"review_count"`
	Rating      float64  `json:"rating"`
	Year        int      `json:"year,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`

	// CollectionID links the movie to a franchise (nil when standalone)
	CollectionID *int64 `json:"collection_id,omitempty"`

	// PredictedScore is set when the movie carries a rating prediction
	PredictedScore *float64 `json:"predicted_score,omitempty"`

	// PredictedConfidence is "high", "medium" or "low"
	PredictedConfidence string `json:"predicted_confidence,omitempty"`

	// IsPrediction marks synthetic nodes added only to carry a prediction
	IsPrediction bool `json:"is_prediction,omitempty"`
}

// GenreData is the payload of a genre node.
type GenreData struct {
	GenreID    int64 `json:"genre_id"`
	MovieCount int   `json:"movie_count"`
}

// CountryData is the payload of a country node.
type CountryData struct {
	CountryID  int64 `json:"country_id"`
	MovieCount int   `json:"movie_count"`
}

// DirectorData is the payload of a director node.
type DirectorData struct {
	PersonID   int64 `json:"person_id"`
	MovieCount int   `json:"movie_count"`
}

// ActorData is the payload of an actor node.
type ActorData struct {
	PersonID   int64 `json:"person_id"`
	MovieCount int   `json:"movie_count"`
}

// CrewData is the payload of a crew node.
type CrewData struct {
	PersonID   int64  `json:"person_id"`
	MovieCount int    `json:"movie_count"`
	Role       string `json:"role,omitempty"`
}

func (UserData) nodeType() NodeType     { return NodeUser }
func (MovieData) nodeType() NodeType    { return NodeMovie }
func (GenreData) nodeType() NodeType    { return NodeGenre }
func (CountryData) nodeType() NodeType  { return NodeCountry }
func (DirectorData) nodeType() NodeType { return NodeDirector }
func (ActorData) nodeType() NodeType    { return NodeActor }
func (CrewData) nodeType() NodeType     { return NodeCrew }

// Node is a vertex of the movie graph.
type Node struct {
	// ID is unique within one build and prefixed by type (e.g. "movie_603")
	ID string `json:"id"`

	// Type selects the NodeData variant
	Type NodeType `json:"type"`

	// Label for display
	Label string `json:"label"`

	// Size is the clamped display size for the node type
	Size float64 `json:"size"`

	// Color is the display color (hex)
	Color string `json:"color"`

	// Data is the type-specific payload
	Data NodeData `json:"data"`

	// Community is set after analytics when the node belongs to a reported community
	Community string `json:"community,omitempty"`

	// CommunitySize is the member count of Community
	CommunitySize int `json:"community_size,omitempty"`

	// Centrality is set after analytics when centrality ran
	Centrality *CentralityScores `json:"centrality,omitempty"`

	// Physics is set by the layout engine
	Physics *NodePhysics `json:"physics,omitempty"`
}

// NewNode builds a node whose Type always agrees with its payload.
func NewNode(id, label string, size float64, color string, data NodeData) Node {
	return Node{
		ID:    id,
		Type:  data.nodeType(),
		Label: label,
		Size:  size,
		Color: color,
		Data:  data,
	}
}

// Movie returns the movie payload, or nil when the node is not a movie.
func (n *Node) Movie() *MovieData {
	if m, ok := n.Data.(*MovieData); ok {
		return m
	}
	return nil
}

// Edge is an undirected weighted relationship between two nodes.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`

	// Weight is the analytic weight used by community detection and centrality
	Weight float64 `json:"weight"`

	// Length is the preferred spring length (0 = unset)
	Length float64 `json:"length,omitempty"`

	// Strength is the spring strength (0 = unset)
	Strength float64 `json:"strength,omitempty"`

	Color   string  `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Dashes  bool    `json:"dashes,omitempty"`
	Label   string  `json:"label,omitempty"`
}

// Graph is the complete output of one graph build.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	// Analytics holds community and centrality results (empty below the node minimum)
	Analytics Analytics `json:"analytics"`

	// Layout holds the global simulation parameters
	Layout *LayoutConfig `json:"layout,omitempty"`

	Stats    GraphStats    `json:"stats"`
	Metadata BuildMetadata `json:"metadata"`
}

// GraphStats summarises the size of a built graph.
type GraphStats struct {
	TotalNodes int              `json:"total_nodes"`
	TotalEdges int              `json:"total_edges"`
	NodeCounts map[NodeType]int `json:"node_counts"`
	EdgeCounts map[EdgeType]int `json:"edge_counts"`
}

// BuildMetadata provides provenance for a built graph.
type BuildMetadata struct {
	// BuildID uniquely identifies this build
	BuildID string `json:"build_id"`

	// UserID is the requesting user
	UserID int64 `json:"user_id"`

	// Seed drove every random choice in the build
	Seed uint64 `json:"seed"`

	// GeneratedAt is when the build finished
	GeneratedAt time.Time `json:"generated_at"`

	// DurationMS is the wall-clock build time
	DurationMS int64 `json:"duration_ms"`

	// Cached is true when the graph came from the build cache
	Cached bool `json:"cached"`
}

// NewGraphStats counts nodes and edges by type.
func NewGraphStats(nodes []Node, edges []Edge) GraphStats {
	stats := GraphStats{
		TotalNodes: len(nodes),
		TotalEdges: len(edges),
		NodeCounts: make(map[NodeType]int),
		EdgeCounts: make(map[EdgeType]int),
	}
	for i := range nodes {
		stats.NodeCounts[nodes[i].Type]++
	}
	for i := range edges {
		stats.EdgeCounts[edges[i].Type]++
	}
	return stats
}
