// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package builder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/graph/analytics"
	"github.com/tomtom215/cinegraph/internal/graph/centrality"
	"github.com/tomtom215/cinegraph/internal/graph/community"
	"github.com/tomtom215/cinegraph/internal/graph/layout"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/ratings"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/similarity"
)

// Analytics thresholds.
const (
	MinAnalyticsNodes  = 5
	MinCentralityNodes = 10
)

// DefaultSimilarityEdgeThreshold is the minimum user-user similarity that
// becomes an edge.
const DefaultSimilarityEdgeThreshold = 0.3

// Config configures a Builder.
type Config struct {
	// SimilarityMetric selects the user-user measure. Default: cosine.
	SimilarityMetric similarity.Metric

	// SimilarityEdgeThreshold is the minimum score of a similarity edge.
	SimilarityEdgeThreshold float64

	// SimilarityWindow bounds pairwise comparisons per user.
	SimilarityWindow int

	// Community configures detection. The Leiden seed is replaced by the
	// request seed on every build.
	Community community.Config

	Centrality centrality.Config

	// Analytics tunes the health and influence reports.
	Analytics analytics.Config
}

// DefaultConfig returns the default builder configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityMetric:        similarity.MetricCosine,
		SimilarityEdgeThreshold: DefaultSimilarityEdgeThreshold,
		SimilarityWindow:        similarity.DefaultOptions().Window,
		Community:               community.DefaultConfig(),
		Centrality:              centrality.DefaultConfig(),
		Analytics:               analytics.DefaultConfig(),
	}
}

// communityDetector is satisfied by *community.Detector.
type communityDetector interface {
	Detect(ctx context.Context, nodes []models.Node, edges []models.Edge) (*models.CommunityResult, error)
}

// centralityCalculator is satisfied by *centrality.Calculator.
type centralityCalculator interface {
	Calculate(ctx context.Context, nodes []models.Node, edges []models.Edge) (*models.CentralityResult, error)
}

// Builder assembles graphs from ratings and catalog metadata.
type Builder struct {
	cfg         Config
	ratings     *ratings.Extractor
	catalog     catalog.Source
	predictor   recommend.Predictor
	newDetector func(community.Config, community.CollectionNamer) (communityDetector, error)
	centrality  centralityCalculator
	analyzer    *analytics.Analyzer
	layout      *layout.Engine
	logger      zerolog.Logger
}

func newCommunityDetector(cfg community.Config, names community.CollectionNamer) (communityDetector, error) {
	return community.NewDetector(cfg, names)
}

// New creates a builder. predictor may be nil, in which case graphs carry
// no prediction edges.
func New(cfg Config, ex *ratings.Extractor, src catalog.Source, predictor recommend.Predictor) (*Builder, error) {
	if ex == nil || src == nil {
		return nil, errors.New("builder needs a rating extractor and a catalog source")
	}
	if cfg.SimilarityMetric == "" {
		cfg.SimilarityMetric = similarity.MetricCosine
	}
	if _, err := similarity.Func(cfg.SimilarityMetric, nil); err != nil {
		return nil, err
	}
	if cfg.SimilarityEdgeThreshold <= 0 {
		cfg.SimilarityEdgeThreshold = DefaultSimilarityEdgeThreshold
	}
	// Fail fast on unknown strategy names.
	if _, err := community.NewDetector(cfg.Community, nil); err != nil {
		return nil, err
	}

	return &Builder{
		cfg:         cfg,
		ratings:     ex,
		catalog:     src,
		predictor:   predictor,
		newDetector: newCommunityDetector,
		centrality:  centrality.New(cfg.Centrality),
		analyzer:    analytics.New(cfg.Analytics),
		layout:      layout.New(),
		logger:      logging.With().Str("component", "graph_builder").Logger(),
	}, nil
}

// goodReview is a rating at or above the request threshold.
type goodReview struct {
	user, item int64
	rating     float64
}

// state carries one build through its steps.
type state struct {
	req Request

	nodes []models.Node
	edges []models.Edge
	index map[string]int

	counts  map[int64]int
	users   []int64
	records []models.Rating
	matrix  ratings.Matrix
	good    []goodReview

	movies    []models.Movie
	movieByID map[int64]*models.Movie
	stats     map[int64]models.ItemStats

	// cast and crew hold the deduplicated, truncated credits per movie
	cast map[int64][]models.NamedEntity
	crew map[int64][]models.CrewCredit

	analytics models.Analytics
}

func newState(req Request) *state {
	return &state{
		req:       req,
		index:     make(map[string]int),
		movieByID: make(map[int64]*models.Movie),
		cast:      make(map[int64][]models.NamedEntity),
		crew:      make(map[int64][]models.CrewCredit),
	}
}

func (s *state) addNode(n models.Node) {
	if _, ok := s.index[n.ID]; ok {
		return
	}
	s.index[n.ID] = len(s.nodes)
	s.nodes = append(s.nodes, n)
}

func (s *state) node(id string) (*models.Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.nodes[i], true
}

func (s *state) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *state) addEdge(e models.Edge) {
	if e.Source == e.Target || !s.has(e.Source) || !s.has(e.Target) {
		return
	}
	s.edges = append(s.edges, e)
}

// Build assembles the graph for req.
func (b *Builder) Build(ctx context.Context, req Request) (g *models.Graph, err error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph request: %w", err)
	}

	start := time.Now()
	defer func() {
		outcome, nodes := metrics.OutcomeSuccess, 0
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			outcome = metrics.OutcomeCanceled
		case err != nil:
			outcome = metrics.OutcomeError
		default:
			nodes = len(g.Nodes)
		}
		metrics.RecordGraphBuild(outcome, time.Since(start), nodes)
	}()

	s := newState(req)
	steps := []struct {
		name string
		fn   func(context.Context, *state) error
	}{
		{"select users", b.selectUsers},
		{"select movies", b.selectMovies},
		{"add nodes", b.addNodes},
		{"add edges", b.addEdges},
		{"add similarity", b.addSimilarity},
		{"add predictions", b.addPredictions},
		{"analyze", b.analyze},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.fn(ctx, s); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	nodes, edges, layoutCfg := b.layout.Apply(s.nodes, s.edges, req.Seed)
	g = &models.Graph{
		Nodes:     nodes,
		Edges:     edges,
		Analytics: s.analytics,
		Layout:    layoutCfg,
		Stats:     models.NewGraphStats(nodes, edges),
		Metadata: models.BuildMetadata{
			BuildID:     uuid.NewString(),
			UserID:      req.UserID,
			Seed:        req.Seed,
			GeneratedAt: time.Now().UTC(),
			DurationMS:  time.Since(start).Milliseconds(),
		},
	}

	log := logging.WithContext(ctx, b.logger)
	log.Info().
		Int64("user_id", req.UserID).
		Str("build_id", g.Metadata.BuildID).
		Int("nodes", g.Stats.TotalNodes).
		Int("edges", g.Stats.TotalEdges).
		Int64("duration_ms", g.Metadata.DurationMS).
		Msg("graph built")
	return g, nil
}

// selectUsers picks the active users, falling back to anyone with a review.
func (b *Builder) selectUsers(ctx context.Context, s *state) error {
	counts, err := b.ratings.ReviewCounts(ctx)
	if err != nil {
		return err
	}
	s.counts = counts

	active := usersWithReviews(counts, s.req.MinReviews)
	if len(active) == 0 {
		b.logger.Debug().Int("min_reviews", s.req.MinReviews).Msg("no active users, using everyone with a review")
		active = usersWithReviews(counts, 1)
	}
	s.users = capUsers(active, s.req.UserID, s.req.userCap())

	if s.records, err = b.ratings.UserRatingRecords(ctx, s.users); err != nil {
		return err
	}
	s.matrix = ratings.NewMatrix(s.records)
	return nil
}

// usersWithReviews returns the sorted IDs of users with at least minimum reviews.
func usersWithReviews(counts map[int64]int, minimum int) []int64 {
	var ids []int64
	for id, n := range counts {
		if n >= minimum {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// capUsers adds the requester and truncates to limit, never dropping the
// requester.
func capUsers(ids []int64, requester int64, limit int) []int64 {
	if _, found := slices.BinarySearch(ids, requester); !found {
		ids = append(slices.Clone(ids), requester)
		slices.Sort(ids)
	}
	if len(ids) <= limit {
		return ids
	}
	out := slices.Clone(ids[:limit])
	if _, found := slices.BinarySearch(out, requester); !found {
		// requester sorts after every kept ID
		out[limit-1] = requester
	}
	return out
}

// selectMovies collects the good reviews and the movies they cover.
func (b *Builder) selectMovies(ctx context.Context, s *state) error {
	liked := make(map[int64]bool)
	for _, u := range s.users {
		row := s.matrix[u]
		items := make([]int64, 0, len(row))
		for item := range row {
			items = append(items, item)
		}
		slices.Sort(items)
		for _, item := range items {
			if r := row[item]; r >= s.req.RatingThreshold {
				s.good = append(s.good, goodReview{user: u, item: item, rating: r})
				liked[item] = true
			}
		}
	}

	ids := make([]int64, 0, len(liked))
	for id := range liked {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	if len(ids) > s.req.MovieLimit {
		ids = ids[:s.req.MovieLimit]
	}

	if len(ids) == 0 {
		b.logger.Warn().
			Float64("rating_threshold", s.req.RatingThreshold).
			Msg("no well-reviewed movies, using fallback")
		var err error
		if ids, err = b.fallbackMovies(ctx, s); err != nil {
			return err
		}
	}

	stats, err := b.ratings.MovieStats(ctx, ids)
	if err != nil {
		return err
	}
	s.stats = stats

	found, err := b.catalog.Movies(ctx, ids)
	if err != nil {
		return fmt.Errorf("load movies: %w", err)
	}
	for _, id := range ids {
		m, ok := found[id]
		if !ok {
			b.logger.Debug().Int64("movie_id", id).Msg("movie missing from catalog, skipped")
			continue
		}
		s.movies = append(s.movies, m)
	}
	for i := range s.movies {
		s.movieByID[s.movies[i].ID] = &s.movies[i]
	}
	return nil
}

// fallbackMovies returns rated items when no review passes the threshold:
// first the active users' items, then any rated item.
func (b *Builder) fallbackMovies(ctx context.Context, s *state) ([]int64, error) {
	ids := s.matrix.Items()
	if len(ids) == 0 {
		popular, err := b.ratings.ItemPopularity(ctx, nil)
		if err != nil {
			return nil, err
		}
		for _, st := range popular {
			ids = append(ids, st.ItemID)
		}
		slices.Sort(ids)
	}
	if limit := s.req.fallbackMovieCap(); len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// analyze runs community detection, centrality and the health and
// influence reports, and merges the results into the nodes. A failed stage
// leaves its part of the analytics block nil and is listed in FailedStages;
// the other stages still run.
func (b *Builder) analyze(ctx context.Context, s *state) error {
	n := len(s.nodes)
	if n < MinAnalyticsNodes {
		s.analytics.Skipped = fmt.Sprintf("graph has %d nodes, analytics need %d", n, MinAnalyticsNodes)
		return nil
	}

	communities, err := b.detectCommunities(ctx, s)
	if err != nil {
		return err
	}

	var scores *models.CentralityResult
	if n >= MinCentralityNodes {
		if scores, err = b.centralityScores(ctx, s); err != nil {
			return err
		}
	}

	var sizes map[string]int
	if communities != nil {
		sizes = make(map[string]int, len(communities.Communities))
		for _, c := range communities.Communities {
			sizes[c.ID] = c.Size
		}
	}
	for i := range s.nodes {
		id := s.nodes[i].ID
		if communities != nil {
			if c, ok := communities.Assignment[id]; ok {
				s.nodes[i].Community = c
				s.nodes[i].CommunitySize = sizes[c]
			}
		}
		if scores != nil {
			if sc, ok := scores.Measures[id]; ok {
				s.nodes[i].Centrality = &sc
			}
		}
	}
	s.analytics.Communities = communities
	s.analytics.Centrality = scores

	report, err := b.analyzer.Analyze(ctx, analytics.Input{
		Nodes:      s.nodes,
		Edges:      s.edges,
		Centrality: scores,
		Ratings:    s.records,
	})
	if err != nil {
		return err
	}
	s.analytics.Health = report.Health
	s.analytics.TopInfluencers = report.TopInfluencers
	return nil
}

// detectCommunities returns nil without error when detection failed for any
// reason other than cancellation.
func (b *Builder) detectCommunities(ctx context.Context, s *state) (*models.CommunityResult, error) {
	names, err := catalog.CollectionNames(ctx, b.catalog, s.movieMap())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		b.logger.Warn().Err(err).Msg("collection names unavailable")
		names = nil
	}

	cfg := b.cfg.Community
	cfg.Leiden.Seed = s.req.Seed
	detector, err := b.newDetector(cfg, community.CollectionNames(names))
	if err != nil {
		b.stageFailed(s, models.StageCommunities, err)
		return nil, nil
	}
	result, err := detector.Detect(ctx, s.nodes, s.edges)
	switch {
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		b.stageFailed(s, models.StageCommunities, err)
		return nil, nil
	case result == nil || result.Method == community.MethodFailed:
		b.stageFailed(s, models.StageCommunities, errors.New("every strategy failed"))
		return nil, nil
	}
	return result, nil
}

// centralityScores returns nil without error when the calculation failed
// for any reason other than cancellation.
func (b *Builder) centralityScores(ctx context.Context, s *state) (*models.CentralityResult, error) {
	result, err := b.centrality.Calculate(ctx, s.nodes, s.edges)
	switch {
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		b.stageFailed(s, models.StageCentrality, err)
		return nil, nil
	case result == nil || result.Method == centrality.MethodFailed:
		b.stageFailed(s, models.StageCentrality, errors.New("calculation failed"))
		return nil, nil
	}
	return result, nil
}

func (b *Builder) stageFailed(s *state, stage string, err error) {
	s.analytics.FailedStages = append(s.analytics.FailedStages, stage)
	metrics.AnalyticsStageFailures.WithLabelValues(stage).Inc()
	b.logger.Warn().Err(err).Str("stage", stage).Msg("analytics stage failed, keeping the other stages")
}

func (s *state) movieMap() map[int64]models.Movie {
	out := make(map[int64]models.Movie, len(s.movies))
	for _, m := range s.movies {
		out[m.ID] = m
	}
	return out
}
