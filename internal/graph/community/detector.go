// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package community

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/cinegraph/internal/graph"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

// MinCommunitySize is the smallest reported community.
const MinCommunitySize = 2

// Method names recorded on results.
const (
	MethodLeiden  = "leiden"
	MethodLouvain = "louvain"
	MethodGreedy  = "greedy_modularity"
	MethodFailed  = "failed"
)

// ErrNoStrategy is returned when a detector is configured without strategies.
var ErrNoStrategy = errors.New("no community detection strategy configured")

// Strategy partitions a graph.
type Strategy interface {
	Name() string
	Detect(ctx context.Context, g *graph.Graph) (Partition, error)
}

// Config configures a Detector.
type Config struct {
	Leiden LeidenConfig

	// Strategies lists strategy names in the order they are tried.
	// Default: leiden, louvain, greedy_modularity.
	Strategies []string
}

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		Leiden:     DefaultLeidenConfig(),
		Strategies: []string{MethodLeiden, MethodLouvain, MethodGreedy},
	}
}

// Detector runs strategies in order until one yields communities.
type Detector struct {
	strategies  []Strategy
	resolution  float64
	collections CollectionNamer
	logger      zerolog.Logger
}

// NewDetector creates a detector. collections may be nil.
func NewDetector(cfg Config, collections CollectionNamer) (*Detector, error) {
	leiden := NewLeiden(cfg.Leiden)
	names := cfg.Strategies
	if len(names) == 0 {
		names = DefaultConfig().Strategies
	}

	var strategies []Strategy
	for _, name := range names {
		switch name {
		case MethodLeiden:
			strategies = append(strategies, leiden)
		case MethodLouvain:
			strategies = append(strategies, &Louvain{Resolution: leiden.Resolution(), Seed: cfg.Leiden.Seed})
		case MethodGreedy:
			strategies = append(strategies, &Greedy{Resolution: leiden.Resolution()})
		default:
			return nil, fmt.Errorf("unknown community strategy %q", name)
		}
	}
	return NewDetectorWithStrategies(leiden.Resolution(), collections, strategies...)
}

// NewDetectorWithStrategies creates a detector over explicit strategies.
func NewDetectorWithStrategies(resolution float64, collections CollectionNamer, strategies ...Strategy) (*Detector, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategy
	}
	return &Detector{
		strategies:  strategies,
		resolution:  resolution,
		collections: collections,
		logger:      logging.With().Str("component", "community").Logger(),
	}, nil
}

// Detect partitions the graph formed by nodes and edges. Strategy failures
// fall through to the next strategy; when all fail the result has method
// "failed" and no communities. Only context cancellation is returned as
// an error.
func (d *Detector) Detect(ctx context.Context, nodes []models.Node, edges []models.Edge) (*models.CommunityResult, error) {
	g := graph.FromModels(nodes, edges)
	if added := AddCollectionEdges(g, nodes); added > 0 {
		d.logger.Debug().Int("edges", added).Msg("added collection virtual edges")
	}

	if g.Len() < MinCommunitySize {
		return d.emptyResult(d.strategies[0].Name(), nil), nil
	}

	var attempts []string
	for _, s := range d.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		part, err := runStrategy(ctx, s, g)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			d.logger.Warn().Err(err).Str("strategy", s.Name()).Msg("community strategy failed")
			attempts = append(attempts, s.Name()+"_failed")
			continue
		}
		groups := part.Communities(MinCommunitySize)
		if len(groups) == 0 {
			d.logger.Debug().Str("strategy", s.Name()).Msg("community strategy found no communities")
			attempts = append(attempts, s.Name()+"_empty")
			continue
		}

		attempts = append(attempts, s.Name())
		result := d.buildResult(g, nodes, part, groups, s.Name())
		result.Attempts = attempts
		metrics.CommunityDetections.WithLabelValues(s.Name()).Inc()

		d.logger.Info().
			Str("method", s.Name()).
			Int("communities", len(result.Communities)).
			Float64("modularity", result.Stats.Modularity).
			Msg("communities detected")
		return result, nil
	}

	metrics.CommunityDetections.WithLabelValues(MethodFailed).Inc()
	d.logger.Warn().Strs("attempts", attempts).Msg("all community strategies failed")
	return d.emptyResult(MethodFailed, attempts), nil
}

// runStrategy converts strategy panics into errors.
func runStrategy(ctx context.Context, s Strategy, g *graph.Graph) (part Partition, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Detect(ctx, g)
}

func (d *Detector) emptyResult(method string, attempts []string) *models.CommunityResult {
	return &models.CommunityResult{
		Communities: []models.Community{},
		Assignment:  map[string]string{},
		Stats:       models.CommunityStats{ResolutionUsed: d.resolution},
		Method:      method,
		Attempts:    attempts,
	}
}

func (d *Detector) buildResult(g *graph.Graph, nodes []models.Node, part Partition, groups [][]int, method string) *models.CommunityResult {
	byID := make(map[string]*models.Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	modularity := Modularity(g, part.Membership, d.resolution)
	result := &models.CommunityResult{
		Communities:       make([]models.Community, 0, len(groups)),
		Assignment:        make(map[string]string),
		Method:            method,
		ModularityHistory: part.History,
	}

	sizes := make([]float64, 0, len(groups))
	covered := 0
	for i, members := range groups {
		id := fmt.Sprintf("community_%d", i)
		ids := make([]string, len(members))
		memberNodes := make([]*models.Node, 0, len(members))
		for j, idx := range members {
			ids[j] = g.ID(idx)
			result.Assignment[ids[j]] = id
			if n, ok := byID[ids[j]]; ok {
				memberNodes = append(memberNodes, n)
			}
		}

		internal, totalDegree := internalStats(g, members)
		q := MeasureQuality(g, members)
		size := len(members)
		result.Communities = append(result.Communities, models.Community{
			ID:                    id,
			Nodes:                 ids,
			Size:                  size,
			Name:                  Name(memberNodes, d.collections),
			Modularity:            modularity,
			InternalEdges:         internal,
			TotalDegree:           totalDegree,
			Density:               2 * float64(internal) / float64(size*(size-1)),
			Conductance:           q.Conductance,
			ClusteringCoefficient: q.Clustering,
			Separability:          q.Separability,
			QualityScore:          q.Score,
		})
		sizes = append(sizes, float64(size))
		covered += size
	}

	result.Stats = communityStats(sizes, covered, g.Len(), modularity, d.resolution)
	return result
}

// internalStats returns the internal edge count and the weighted degree sum.
func internalStats(g *graph.Graph, members []int) (int, float64) {
	in := make(map[int]bool, len(members))
	for _, m := range members {
		in[m] = true
	}
	internal := 0
	var degree float64
	for _, u := range members {
		for _, nb := range g.Neighbors(u) {
			degree += nb.Weight
			if in[nb.Index] && u < nb.Index {
				internal++
			}
		}
	}
	return internal, degree
}

func communityStats(sizes []float64, covered, n int, modularity, resolution float64) models.CommunityStats {
	stats := models.CommunityStats{
		NumCommunities: len(sizes),
		Modularity:     modularity,
		ResolutionUsed: resolution,
	}
	if len(sizes) == 0 {
		return stats
	}
	mean, std := stat.PopMeanStdDev(sizes, nil)
	if len(sizes) <= 1 || math.IsNaN(std) {
		std = 0
	}
	stats.AvgCommunitySize = mean
	stats.CommunitySizeStd = std
	stats.LargestCommunity = int(sizes[0])
	stats.SmallestCommunity = int(sizes[0])
	for _, s := range sizes {
		stats.LargestCommunity = max(stats.LargestCommunity, int(s))
		stats.SmallestCommunity = min(stats.SmallestCommunity, int(s))
	}
	if n > 0 {
		stats.Coverage = float64(covered) / float64(n)
	}
	return stats
}
