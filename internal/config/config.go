// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package config

import (
	"time"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/graph/analytics"
	"github.com/tomtom215/cinegraph/internal/graph/builder"
	"github.com/tomtom215/cinegraph/internal/graph/community"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/ratings"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/similarity"
	"github.com/tomtom215/cinegraph/internal/store"
)

// Config holds all cinegraph configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: defaultConfig
//  2. Config file: optional YAML, see DefaultConfigPaths
//  3. Environment: CINEGRAPH_<SECTION>_<KEY> plus a few short aliases
type Config struct {
	Logging   LoggingConfig   `koanf:"logging"`
	Graph     GraphConfig     `koanf:"graph"`
	Community CommunityConfig `koanf:"community"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Store     StoreConfig     `koanf:"store"`
	Server    ServerConfig    `koanf:"server"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is trace, debug, info, warn, error or disabled. Default: info
	Level string `koanf:"level" validate:"loglevel"`

	// Format is json or console. Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	Caller bool `koanf:"caller"`
}

// GraphConfig holds the default graph request and the builder's similarity
// settings. CLI flags override the request fields per call.
type GraphConfig struct {
	MinReviews       int     `koanf:"min_reviews" validate:"gte=1"`
	RatingThreshold  float64 `koanf:"rating_threshold" validate:"gte=0,lte=10"`
	MaxNodes         int     `koanf:"max_nodes" validate:"gte=3,lte=20000"`
	MovieLimit       int     `koanf:"movie_limit" validate:"gte=1"`
	PredictionsLimit int     `koanf:"predictions_limit" validate:"gte=0,lte=100"`

	// SimilarityMetric is cosine, pearson, adjusted_cosine or jaccard.
	SimilarityMetric        string  `koanf:"similarity_metric" validate:"oneof=cosine pearson adjusted_cosine jaccard"`
	SimilarityEdgeThreshold float64 `koanf:"similarity_edge_threshold" validate:"gte=-1,lte=1"`

	// Seed drives community detection and layout.
	Seed uint64 `koanf:"seed"`

	// EngagementWindow decides which users count as active in the health
	// report.
	EngagementWindow time.Duration `koanf:"engagement_window" validate:"gt=0"`

	// TopInfluencers bounds each influence leaderboard.
	TopInfluencers int `koanf:"top_influencers" validate:"gte=1,lte=100"`
}

// CommunityConfig configures community detection.
type CommunityConfig struct {
	Resolution        float64 `koanf:"resolution" validate:"gt=0"`
	MaxIterations     int     `koanf:"max_iterations" validate:"gte=1"`
	Tolerance         float64 `koanf:"tolerance" validate:"gt=0"`
	Seed              uint64  `koanf:"seed"`
	AllowNewCommunity bool    `koanf:"allow_new_community"`

	// Strategies are tried in order. Comma separated in the environment.
	Strategies []string `koanf:"strategies" validate:"min=1,unique,dive,oneof=leiden louvain greedy_modularity"`
}

// RecommendConfig configures the recommender.
type RecommendConfig struct {
	// ModelPath is the SVD artifact. Empty runs on popularity alone.
	ModelPath string `koanf:"model_path"`

	// ReloadInterval is how often serve reloads ModelPath. Zero disables it.
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"gte=0"`

	MMRLambda    float64 `koanf:"mmr_lambda" validate:"gte=0,lte=1"`
	Oversample   int     `koanf:"oversample" validate:"gte=1,lte=20"`
	KNNNeighbors int     `koanf:"knn_neighbors" validate:"gte=1"`

	// ContentWeight is the share of content similarity in personalized
	// relevance. Zero ranks by the model alone.
	ContentWeight  float64 `koanf:"content_weight" validate:"gte=0,lte=1"`
	LikedThreshold float64 `koanf:"liked_threshold" validate:"gte=0,lte=10"`
}

// CacheConfig sizes the graph memoization and catalog caches.
type CacheConfig struct {
	GraphTTL    time.Duration `koanf:"graph_ttl" validate:"gt=0"`
	CatalogSize int           `koanf:"catalog_size" validate:"gte=1"`
	CatalogTTL  time.Duration `koanf:"catalog_ttl" validate:"gt=0"`
}

// StoreConfig configures the badger dataset store and the breaker guarding
// reads from it.
type StoreConfig struct {
	Path            string        `koanf:"path" validate:"required"`
	BatchSize       int           `koanf:"batch_size" validate:"gte=1,lte=100000"`
	BreakerFailures int           `koanf:"breaker_failures" validate:"gte=1"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	MetricsAddr     string        `koanf:"metrics_addr" validate:"hostname_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// defaultConfig returns the defaults applied before the file and environment.
func defaultConfig() *Config {
	req := builder.DefaultRequest(1)
	leiden := community.DefaultLeidenConfig()
	rec := recommend.DefaultConfig()
	cat := catalog.DefaultCacheConfig()
	ext := ratings.DefaultConfig()
	ana := analytics.DefaultConfig()

	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatJSON,
		},
		Graph: GraphConfig{
			MinReviews:              req.MinReviews,
			RatingThreshold:         req.RatingThreshold,
			MaxNodes:                req.MaxNodes,
			MovieLimit:              req.MovieLimit,
			PredictionsLimit:        req.PredictionsLimit,
			SimilarityMetric:        string(similarity.MetricCosine),
			SimilarityEdgeThreshold: builder.DefaultSimilarityEdgeThreshold,
			Seed:                    req.Seed,
			EngagementWindow:        ana.EngagementWindow,
			TopInfluencers:          ana.TopN,
		},
		Community: CommunityConfig{
			Resolution:        leiden.Resolution,
			MaxIterations:     leiden.MaxIterations,
			Tolerance:         leiden.Tolerance,
			Seed:              leiden.Seed,
			AllowNewCommunity: leiden.AllowNewCommunity,
			Strategies:        community.DefaultConfig().Strategies,
		},
		Recommend: RecommendConfig{
			ReloadInterval: rec.ReloadInterval,
			MMRLambda:      rec.MMRLambda,
			Oversample:     rec.Oversample,
			KNNNeighbors:   rec.Neighborhood.K,
			ContentWeight:  rec.Content.Weight,
			LikedThreshold: rec.Content.LikedThreshold,
		},
		Cache: CacheConfig{
			GraphTTL:    builder.DefaultCacheTTL,
			CatalogSize: cat.Size,
			CatalogTTL:  cat.TTL,
		},
		Store: StoreConfig{
			Path:            "data/cinegraph",
			BatchSize:       ext.BatchSize,
			BreakerFailures: int(ext.FailureThreshold),
			BreakerTimeout:  ext.Timeout,
		},
		Server: ServerConfig{
			MetricsAddr:     ":9090",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// LoggingOptions converts the logging section.
func (c *Config) LoggingOptions() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

// StoreOptions converts the store section.
func (c *Config) StoreOptions() store.Config {
	return store.Config{Path: c.Store.Path, Compression: true}
}

// ExtractorOptions converts the store section's batching and breaker
// settings.
func (c *Config) ExtractorOptions() ratings.Config {
	cfg := ratings.DefaultConfig()
	cfg.BatchSize = c.Store.BatchSize
	cfg.FailureThreshold = uint32(c.Store.BreakerFailures) //nolint:gosec // validated >= 1
	cfg.Timeout = c.Store.BreakerTimeout
	return cfg
}

// CatalogCacheOptions converts the catalog half of the cache section.
func (c *Config) CatalogCacheOptions() catalog.CacheConfig {
	return catalog.CacheConfig{Size: c.Cache.CatalogSize, TTL: c.Cache.CatalogTTL}
}

// BuilderOptions converts the graph and community sections.
func (c *Config) BuilderOptions() builder.Config {
	cfg := builder.DefaultConfig()
	cfg.SimilarityMetric = similarity.Metric(c.Graph.SimilarityMetric)
	cfg.SimilarityEdgeThreshold = c.Graph.SimilarityEdgeThreshold
	cfg.Community = community.Config{
		Leiden: community.LeidenConfig{
			Resolution:        c.Community.Resolution,
			MaxIterations:     c.Community.MaxIterations,
			Tolerance:         c.Community.Tolerance,
			Seed:              c.Community.Seed,
			AllowNewCommunity: c.Community.AllowNewCommunity,
		},
		Strategies: append([]string(nil), c.Community.Strategies...),
	}
	cfg.Analytics.EngagementWindow = c.Graph.EngagementWindow
	cfg.Analytics.TopN = c.Graph.TopInfluencers
	return cfg
}

// GraphRequest returns the configured default request for userID.
func (c *Config) GraphRequest(userID int64) builder.Request {
	req := builder.DefaultRequest(userID)
	req.MinReviews = c.Graph.MinReviews
	req.RatingThreshold = c.Graph.RatingThreshold
	req.MaxNodes = c.Graph.MaxNodes
	req.MovieLimit = c.Graph.MovieLimit
	req.PredictionsLimit = c.Graph.PredictionsLimit
	req.Seed = c.Graph.Seed
	return req
}

// RecommendOptions converts the recommend section.
func (c *Config) RecommendOptions() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.ModelPath = c.Recommend.ModelPath
	cfg.ReloadInterval = c.Recommend.ReloadInterval
	cfg.MMRLambda = c.Recommend.MMRLambda
	cfg.Oversample = c.Recommend.Oversample
	cfg.Neighborhood.K = c.Recommend.KNNNeighbors
	cfg.Content.Weight = c.Recommend.ContentWeight
	cfg.Content.LikedThreshold = c.Recommend.LikedThreshold
	return cfg
}
