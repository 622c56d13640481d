// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package centrality computes node importance measures over the movie graph.

Five measures are produced for every node:

  - degree centrality: distinct neighbours divided by n-1
  - betweenness: weighted shortest-path betweenness via gonum, normalised
    for undirected graphs
  - closeness: Wasserman-Faust closeness over unweighted shortest paths, so
    disconnected graphs still rank nodes within their components
  - eigenvector: weighted power iteration
  - pagerank: weighted power iteration with damping and uniform dangling
    redistribution

Each measure has a fallback chain. When the weighted form fails (a panic
inside a solver or a power iteration that does not converge) the unweighted
form is tried, and when that also fails the measure is reported as zero for
every node. Fallbacks are recorded on the result and counted in metrics; they
never abort the calculation.
*/
package centrality

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"

	"github.com/tomtom215/cinegraph/internal/graph"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

// Result methods.
const (
	MethodGonum  = "gonum"
	MethodFailed = "failed"
)

// Measure names used in fallback records and metrics labels.
const (
	MeasureBetweenness = "betweenness"
	MeasureCloseness   = "closeness"
	MeasureEigenvector = "eigenvector"
	MeasurePageRank    = "pagerank"
)

// Power iteration defaults.
const (
	DefaultMaxIterations = 1000
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
)

// ErrNotConverged is returned when a power iteration exhausts its budget.
var ErrNotConverged = errors.New("power iteration did not converge")

// Config configures the calculator.
type Config struct {
	MaxIterations int
	Damping       float64

	// Tolerance is per node; the convergence threshold is n*Tolerance.
	Tolerance float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations: DefaultMaxIterations,
		Damping:       DefaultDamping,
		Tolerance:     DefaultTolerance,
	}
}

// Calculator computes centrality measures.
type Calculator struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates a calculator. Zero fields fall back to defaults.
func New(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.Damping <= 0 || cfg.Damping >= 1 {
		cfg.Damping = def.Damping
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	return &Calculator{
		cfg:    cfg,
		logger: logging.With().Str("component", "centrality").Logger(),
	}
}

// Calculate computes every measure for the graph formed by nodes and edges.
// Only context cancellation is returned as an error.
func (c *Calculator) Calculate(ctx context.Context, nodes []models.Node, edges []models.Edge) (result *models.CentralityResult, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msg("centrality calculation failed")
			result = &models.CentralityResult{
				Measures: map[string]models.CentralityScores{},
				Method:   MethodFailed,
			}
			err = nil
		}
	}()

	g := graph.FromModels(nodes, edges)
	n := g.Len()
	result = &models.CentralityResult{
		Measures: make(map[string]models.CentralityScores, n),
		Method:   MethodGonum,
		Stats: models.CentralityStats{
			NumNodes: n,
			NumEdges: g.EdgeCount(),
			Density:  g.Density(),
		},
	}
	if n == 0 {
		return result, nil
	}

	degree := DegreeCentrality(g)

	betweenness := c.measure(ctx, result, MeasureBetweenness,
		func() ([]float64, error) { return Betweenness(g) },
		func() ([]float64, error) { return BetweennessUnweighted(g) },
	)
	closeness := c.measure(ctx, result, MeasureCloseness,
		func() ([]float64, error) { return Closeness(g) },
		func() ([]float64, error) { return closenessGonum(g) },
	)
	eigenvector := c.measure(ctx, result, MeasureEigenvector,
		func() ([]float64, error) { return Eigenvector(g, true, c.cfg.MaxIterations, c.cfg.Tolerance) },
		func() ([]float64, error) { return Eigenvector(g, false, c.cfg.MaxIterations, c.cfg.Tolerance) },
	)
	pagerank := c.measure(ctx, result, MeasurePageRank,
		func() ([]float64, error) {
			return PageRank(g, c.cfg.Damping, c.cfg.MaxIterations, c.cfg.Tolerance)
		},
		func() ([]float64, error) { return pageRankGonum(g, c.cfg.Damping, c.cfg.Tolerance) },
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sumDeg, sumBtw float64
	for i := 0; i < n; i++ {
		result.Measures[g.ID(i)] = models.CentralityScores{
			DegreeCentrality: degree[i],
			Betweenness:      betweenness[i],
			Closeness:        closeness[i],
			Eigenvector:      eigenvector[i],
			PageRank:         pagerank[i],
			Degree:           g.Degree(i),
		}
		sumDeg += degree[i]
		sumBtw += betweenness[i]
		result.Stats.MaxDegreeCentrality = math.Max(result.Stats.MaxDegreeCentrality, degree[i])
		result.Stats.MaxBetweenness = math.Max(result.Stats.MaxBetweenness, betweenness[i])
	}
	result.Stats.AvgDegreeCentrality = sumDeg / float64(n)
	result.Stats.AvgBetweenness = sumBtw / float64(n)

	c.logger.Debug().
		Int("nodes", n).
		Int("edges", g.EdgeCount()).
		Strs("fallbacks", result.Fallbacks).
		Msg("centrality calculated")
	return result, nil
}

// measure runs attempts in order and returns the first success. The first
// attempt is the primary form; later attempts are recorded as fallbacks.
// When every attempt fails the measure is zero.
func (c *Calculator) measure(ctx context.Context, result *models.CentralityResult, name string, attempts ...func() ([]float64, error)) []float64 {
	for i, attempt := range attempts {
		if ctx.Err() != nil {
			break
		}
		values, err := safely(attempt)
		if err == nil {
			if i > 0 {
				result.Fallbacks = append(result.Fallbacks, fmt.Sprintf("%s_unweighted", name))
				metrics.CentralityFallbacks.WithLabelValues(name).Inc()
			}
			return values
		}
		c.logger.Warn().Err(err).Str("measure", name).Int("attempt", i).Msg("centrality measure failed")
	}

	result.Fallbacks = append(result.Fallbacks, name+"_zero")
	metrics.CentralityFallbacks.WithLabelValues(name).Inc()
	return make([]float64, result.Stats.NumNodes)
}

// safely converts solver panics into errors.
func safely(fn func() ([]float64, error)) (values []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("solver panicked: %v", r)
		}
	}()
	return fn()
}

// DegreeCentrality returns deg/(n-1) per node. A lone node scores 1.
func DegreeCentrality(g *graph.Graph) []float64 {
	n := g.Len()
	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = float64(g.Degree(i)) / float64(n-1)
	}
	return out
}

// Betweenness returns normalised betweenness using edge weights as
// distances.
func Betweenness(g *graph.Graph) ([]float64, error) {
	wg := g.Weighted()
	raw := network.BetweennessWeighted(wg, path.DijkstraAllPaths(wg))
	return normaliseBetweenness(g.Len(), raw), nil
}

// BetweennessUnweighted returns normalised betweenness by hop count.
func BetweennessUnweighted(g *graph.Graph) ([]float64, error) {
	return normaliseBetweenness(g.Len(), network.Betweenness(g.Unweighted())), nil
}

// normaliseBetweenness scales gonum's ordered-pair sums into [0, 1]. gonum
// counts each unordered pair twice on undirected graphs, so the divisor is
// (n-1)(n-2).
func normaliseBetweenness(n int, raw map[int64]float64) []float64 {
	out := make([]float64, n)
	if n <= 2 {
		return out
	}
	scale := 1 / float64((n-1)*(n-2))
	for id, v := range raw {
		out[id] = clamp01(v * scale)
	}
	return out
}

// Closeness returns Wasserman-Faust closeness over hop distances: for a
// node reaching r-1 others at total distance d, (r-1)/d * (r-1)/(n-1).
func Closeness(g *graph.Graph) ([]float64, error) {
	n := g.Len()
	out := make([]float64, n)
	if n < 2 {
		return out, nil
	}
	ug := g.Unweighted()
	paths := path.DijkstraAllPaths(ug)
	for u := 0; u < n; u++ {
		var total float64
		reached := 0
		for v := 0; v < n; v++ {
			if u == v {
				continue
			}
			d := paths.Weight(int64(u), int64(v))
			if math.IsInf(d, 1) {
				continue
			}
			total += d
			reached++
		}
		if total == 0 {
			continue
		}
		out[u] = clamp01(float64(reached) / total * float64(reached) / float64(n-1))
	}
	return out, nil
}

// closenessGonum scales gonum's 1/sum closeness by n-1. Unreachable pairs
// drive the sum to infinity, so nodes in disconnected graphs score zero.
func closenessGonum(g *graph.Graph) ([]float64, error) {
	n := g.Len()
	out := make([]float64, n)
	if n < 2 {
		return out, nil
	}
	ug := g.Unweighted()
	for id, v := range network.Closeness(ug, path.DijkstraAllPaths(ug)) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[id] = clamp01(v * float64(n-1))
	}
	return out, nil
}

// Eigenvector runs the power iteration x <- x + Ax from a uniform start and
// normalises to unit length each step. Convergence is reached when the L1
// change falls below n*tol.
func Eigenvector(g *graph.Graph, weighted bool, maxIter int, tol float64) ([]float64, error) {
	n := g.Len()
	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}
	last := make([]float64, n)

	for iter := 0; iter < maxIter; iter++ {
		copy(last, x)
		for u := 0; u < n; u++ {
			for _, nb := range g.Neighbors(u) {
				w := 1.0
				if weighted {
					w = nb.Weight
				}
				x[nb.Index] += last[u] * w
			}
		}

		var norm float64
		for _, v := range x {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			norm = 1
		}
		var diff float64
		for i := range x {
			x[i] /= norm
			diff += math.Abs(x[i] - last[i])
		}
		if diff < float64(n)*tol {
			for i := range x {
				x[i] = clamp01(x[i])
			}
			return x, nil
		}
	}
	return nil, ErrNotConverged
}

// PageRank runs weighted power iteration. Rows are normalised by weighted
// degree; the rank held by nodes without edges is spread uniformly.
func PageRank(g *graph.Graph, damping float64, maxIter int, tol float64) ([]float64, error) {
	n := g.Len()
	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = g.WeightedDegree(i)
	}
	last := make([]float64, n)

	for iter := 0; iter < maxIter; iter++ {
		copy(last, x)
		var dangling float64
		for u := 0; u < n; u++ {
			if out[u] == 0 {
				dangling += last[u]
			}
		}
		base := (1-damping)/float64(n) + damping*dangling/float64(n)
		for i := range x {
			x[i] = base
		}
		for u := 0; u < n; u++ {
			if out[u] == 0 {
				continue
			}
			for _, nb := range g.Neighbors(u) {
				x[nb.Index] += damping * last[u] * nb.Weight / out[u]
			}
		}

		var diff float64
		for i := range x {
			diff += math.Abs(x[i] - last[i])
		}
		if diff < float64(n)*tol {
			return x, nil
		}
	}
	return nil, ErrNotConverged
}

// pageRankGonum runs gonum's unweighted PageRank on the symmetric directed
// view of g.
func pageRankGonum(g *graph.Graph, damping, tol float64) ([]float64, error) {
	out := make([]float64, g.Len())
	for id, v := range network.PageRank(g.Symmetric(), damping, tol) {
		out[id] = v
	}
	return out, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
