// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package models

// Community is a detected group of densely connected nodes.
type Community struct {
	// ID is "community_<i>"
	ID string `json:"id"`

	// Nodes lists member node IDs in graph order
	Nodes []string `json:"nodes"`

	Size int `json:"size"`

	// Name is the generated descriptive name
	Name string `json:"name"`

	// Modularity is the overall partition modularity
	Modularity float64 `json:"modularity"`

	// InternalEdges counts edges with both endpoints in the community
	InternalEdges int `json:"internal_edges"`

	// TotalDegree is the weighted degree sum of members
	TotalDegree float64 `json:"total_degree"`

	// Density is 2*internal/(n*(n-1))
	Density float64 `json:"density"`

	// Conductance is external weight over touching weight (lower is better)
	Conductance float64 `json:"conductance"`

	// ClusteringCoefficient is the mean weighted clustering of the induced subgraph
	ClusteringCoefficient float64 `json:"clustering_coefficient"`

	// Separability is internal weight over external weight
	Separability float64 `json:"separability"`

	// QualityScore combines the metrics above on a 0-100 scale
	QualityScore float64 `json:"quality_score"`
}

// CommunityStats summarises a partition.
type CommunityStats struct {
	NumCommunities    int     `json:"num_communities"`
	Modularity        float64 `json:"modularity"`
	AvgCommunitySize  float64 `json:"avg_community_size"`
	LargestCommunity  int     `json:"largest_community"`
	SmallestCommunity int     `json:"smallest_community"`
	CommunitySizeStd  float64 `json:"community_size_std"`
	Coverage          float64 `json:"coverage"`
	ResolutionUsed    float64 `json:"resolution_used"`
}

// CommunityResult is the output of community detection.
type CommunityResult struct {
	Communities []Community `json:"communities"`

	// Assignment maps node ID to community ID for members of reported communities
	Assignment map[string]string `json:"assignment"`

	Stats CommunityStats `json:"stats"`

	// Method is the strategy that produced the partition ("leiden", "louvain",
	// "greedy_modularity" or "failed")
	Method string `json:"method"`

	// Attempts records every strategy tried, e.g. ["leiden_failed", "louvain"]
	Attempts []string `json:"attempts,omitempty"`

	// ModularityHistory traces modularity after each Leiden outer pass
	ModularityHistory []float64 `json:"modularity_history,omitempty"`
}

// CentralityScores holds the centrality measures of one node.
type CentralityScores struct {
	DegreeCentrality float64 `json:"degree_centrality"`
	Betweenness      float64 `json:"betweenness"`
	Closeness        float64 `json:"closeness"`
	Eigenvector      float64 `json:"eigenvector"`
	PageRank         float64 `json:"pagerank"`

	// Degree is the number of distinct neighbours
	Degree int `json:"degree"`
}

// CentralityStats summarises centrality over the graph.
type CentralityStats struct {
	AvgDegreeCentrality float64 `json:"avg_degree_centrality"`
	MaxDegreeCentrality float64 `json:"max_degree_centrality"`
	AvgBetweenness      float64 `json:"avg_betweenness"`
	MaxBetweenness      float64 `json:"max_betweenness"`
	Density             float64 `json:"density"`
	NumNodes            int     `json:"num_nodes"`
	NumEdges            int     `json:"num_edges"`
}

// CentralityResult is the output of the centrality engine.
type CentralityResult struct {
	Measures map[string]CentralityScores `json:"measures"`
	Stats    CentralityStats             `json:"stats"`

	// Method is "gonum" on success or "failed"
	Method string `json:"method"`

	// Fallbacks lists measures that needed a fallback or were zeroed
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// DensityMetrics describes how interconnected a graph is.
type DensityMetrics struct {
	Density               float64 `json:"density"`
	AverageDegree         float64 `json:"average_degree"`
	MaxDegree             int     `json:"max_degree"`
	ClusteringCoefficient float64 `json:"clustering_coefficient"`
	ConnectedComponents   int     `json:"connected_components"`
	NodeCount             int     `json:"node_count"`
	EdgeCount             int     `json:"edge_count"`
}

// EngagementMetrics summarises recent rating activity of the graph's users.
type EngagementMetrics struct {
	ActiveUsers           int     `json:"active_users"`
	TotalUsers            int     `json:"total_users"`
	EngagementRate        float64 `json:"engagement_rate"`
	AverageReviewsPerUser float64 `json:"average_reviews_per_user"`
	EngagementScore       float64 `json:"engagement_score"`
	WindowDays            int     `json:"window_days"`
}

// NetworkHealth is a 0-100 assessment built from connectivity (30 points),
// engagement (40) and growth (30).
type NetworkHealth struct {
	OverallHealth      float64 `json:"overall_health"`
	Status             string  `json:"status"`
	ConnectivityHealth float64 `json:"connectivity_health"`
	EngagementHealth   float64 `json:"engagement_health"`
	GrowthHealth       float64 `json:"growth_health"`

	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`

	Density    DensityMetrics    `json:"density"`
	Engagement EngagementMetrics `json:"engagement"`

	// RecentReviews and PriorReviews count ratings in the last week and the
	// week before it
	RecentReviews int `json:"recent_reviews"`
	PriorReviews  int `json:"prior_reviews"`
}

// Influencer is a ranked entry of the influence leaderboard.
type Influencer struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Type           NodeType `json:"type"`
	InfluenceScore float64  `json:"influence_score"`
	ReviewCount    int      `json:"review_count"`
	AverageRating  float64  `json:"average_rating"`
	Rank           int      `json:"rank"`
}

// TopInfluencers holds the user and movie leaderboards.
type TopInfluencers struct {
	Users  []Influencer `json:"users"`
	Movies []Influencer `json:"movies"`
}

// Analytics stages reported in Analytics.FailedStages.
const (
	StageCommunities = "communities"
	StageCentrality  = "centrality"
)

// Analytics is the analytics block attached to a graph. It is empty when
// the graph was too small to analyse. A failed stage leaves its own field
// nil and is listed in FailedStages; the other stages are kept.
type Analytics struct {
	Communities    *CommunityResult  `json:"communities,omitempty"`
	Centrality     *CentralityResult `json:"centrality,omitempty"`
	Health         *NetworkHealth    `json:"health,omitempty"`
	TopInfluencers *TopInfluencers   `json:"top_influencers,omitempty"`

	FailedStages []string `json:"failed_stages,omitempty"`

	// Skipped explains why analytics were not run
	Skipped string `json:"skipped,omitempty"`
}

// IsEmpty reports whether no analytics were attached.
func (a *Analytics) IsEmpty() bool {
	return a.Communities == nil && a.Centrality == nil && a.Health == nil && a.TopInfluencers == nil
}
