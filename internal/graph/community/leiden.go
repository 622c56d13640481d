// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package community

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/graph"
	"github.com/tomtom215/cinegraph/internal/logging"
)

// Leiden defaults.
const (
	DefaultResolution    = 1.0
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-6
	DefaultSeed          = 42

	// earlyExitFraction ends a local-moving pass loop when fewer than this
	// share of nodes moved.
	earlyExitFraction = 0.01

	// stablePasses is how many consecutive passes below tolerance count as
	// converged.
	stablePasses = 3
)

// LeidenConfig contains parameters for Leiden clustering.
type LeidenConfig struct {
	// Resolution scales the degree penalty (higher = more, smaller communities).
	Resolution float64

	// MaxIterations caps both outer passes and local-moving passes.
	MaxIterations int

	// Tolerance is the minimum gain for a move and the convergence threshold.
	Tolerance float64

	// Seed drives the node visiting order.
	Seed uint64

	// AllowNewCommunity lets a node leave its community for an empty one
	// during local moving.
	AllowNewCommunity bool
}

// DefaultLeidenConfig returns the default Leiden parameters.
func DefaultLeidenConfig() LeidenConfig {
	return LeidenConfig{
		Resolution:    DefaultResolution,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Seed:          DefaultSeed,
	}
}

// Leiden implements local moving plus connectivity refinement.
type Leiden struct {
	cfg    LeidenConfig
	logger zerolog.Logger
}

// NewLeiden creates a Leiden strategy. Zero fields fall back to defaults.
func NewLeiden(cfg LeidenConfig) *Leiden {
	def := DefaultLeidenConfig()
	if cfg.Resolution <= 0 {
		cfg.Resolution = def.Resolution
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	return &Leiden{
		cfg:    cfg,
		logger: logging.With().Str("component", "leiden").Logger(),
	}
}

// Name implements Strategy.
func (l *Leiden) Name() string { return "leiden" }

// Resolution returns the configured resolution.
func (l *Leiden) Resolution() float64 { return l.cfg.Resolution }

// Detect implements Strategy.
func (l *Leiden) Detect(ctx context.Context, g *graph.Graph) (Partition, error) {
	n := g.Len()
	switch {
	case n == 0:
		return Partition{}, nil
	case n == 1:
		return newPartition([]int{0}), nil
	}

	m2 := 2 * g.TotalWeight()
	if m2 == 0 {
		return newPartition(make([]int, n)), nil
	}

	s := newLeidenState(g, l.cfg, m2)
	rng := rand.New(rand.NewPCG(l.cfg.Seed, l.cfg.Seed))

	best := append([]int(nil), s.comm...)
	var history []float64
	prev := -1.0
	stale := 0

	for iter := 0; iter < l.cfg.MaxIterations; iter++ {
		if err := s.moveNodes(ctx, rng); err != nil {
			return Partition{}, err
		}
		s.refine()

		q := Modularity(g, s.comm, l.cfg.Resolution)
		history = append(history, q)
		delta := q - prev

		l.logger.Debug().
			Int("iteration", iter).
			Float64("modularity", q).
			Msg("leiden pass complete")

		if delta < -l.cfg.Tolerance {
			l.logger.Debug().Int("iteration", iter).Msg("leiden stopped on modularity decrease")
			break
		}
		copy(best, s.comm)

		if math.Abs(delta) < l.cfg.Tolerance {
			stale++
			if stale >= stablePasses {
				break
			}
		} else {
			stale = 0
		}
		prev = q
	}

	p := newPartition(best)
	p.History = history
	return p, nil
}

// leidenState is the dense arena for one run. Community labels are always
// in [0, n).
type leidenState struct {
	g        *graph.Graph
	cfg      LeidenConfig
	m2       float64
	comm     []int
	size     []int
	tot      []float64
	k        []float64
	order    []int
	scratchW []float64
	seen     []bool
}

func newLeidenState(g *graph.Graph, cfg LeidenConfig, m2 float64) *leidenState {
	n := g.Len()
	s := &leidenState{
		g:        g,
		cfg:      cfg,
		m2:       m2,
		comm:     make([]int, n),
		size:     make([]int, n),
		tot:      make([]float64, n),
		k:        make([]float64, n),
		order:    make([]int, n),
		scratchW: make([]float64, n),
		seen:     make([]bool, n),
	}
	for i := 0; i < n; i++ {
		s.k[i] = g.WeightedDegree(i)
		s.comm[i] = i
		s.size[i] = 1
		s.tot[i] = s.k[i]
		s.order[i] = i
	}
	return s
}

// gain is the modularity change of moving a node of degree ki from its
// community (edge weight eOld to it, degree sum kOld without the node) to a
// community with edge weight eNew and degree sum kNew.
func (s *leidenState) gain(ki, eOld, kOld, eNew, kNew float64) float64 {
	return (eNew-eOld)/s.m2 - s.cfg.Resolution*ki*(kNew-kOld+ki)/(s.m2*s.m2)
}

func (s *leidenState) moveNodes(ctx context.Context, rng *rand.Rand) error {
	n := len(s.comm)
	var touched []int

	for pass := 0; pass < s.cfg.MaxIterations; pass++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rng.Shuffle(n, func(i, j int) { s.order[i], s.order[j] = s.order[j], s.order[i] })

		moves := 0
		for _, i := range s.order {
			ci, ki := s.comm[i], s.k[i]

			touched = touched[:0]
			for _, nb := range s.g.Neighbors(i) {
				c := s.comm[nb.Index]
				if !s.seen[c] {
					s.seen[c] = true
					touched = append(touched, c)
				}
				s.scratchW[c] += nb.Weight
			}

			eOld := s.scratchW[ci]
			kOld := s.tot[ci] - ki
			best, bestC := 0.0, ci
			for _, c := range touched {
				if c == ci {
					continue
				}
				if g := s.gain(ki, eOld, kOld, s.scratchW[c], s.tot[c]); g > best+s.cfg.Tolerance {
					best, bestC = g, c
				}
			}
			if s.cfg.AllowNewCommunity && s.size[ci] > 1 {
				if empty := s.emptyLabel(); empty >= 0 {
					if g := s.gain(ki, eOld, kOld, 0, 0); g > best+s.cfg.Tolerance {
						bestC = empty
					}
				}
			}

			for _, c := range touched {
				s.seen[c] = false
				s.scratchW[c] = 0
			}

			if bestC != ci {
				s.move(i, bestC)
				moves++
			}
		}

		if moves == 0 || float64(moves) < float64(n)*earlyExitFraction {
			break
		}
	}
	return nil
}

func (s *leidenState) move(i, to int) {
	from := s.comm[i]
	s.size[from]--
	s.tot[from] -= s.k[i]
	s.size[to]++
	s.tot[to] += s.k[i]
	s.comm[i] = to
}

func (s *leidenState) emptyLabel() int {
	for c, sz := range s.size {
		if sz == 0 {
			return c
		}
	}
	return -1
}

// refine splits every community into the connected components of its
// induced subgraph and relabels densely. Nodes left alone keep a singleton
// label so later passes can still move them.
func (s *leidenState) refine() {
	n := len(s.comm)
	members := make([][]int, n)
	var labels []int
	for i, c := range s.comm {
		if members[c] == nil {
			labels = append(labels, c)
		}
		members[c] = append(members[c], i)
	}

	next := 0
	assign := func(nodes []int) {
		for _, v := range nodes {
			s.comm[v] = next
		}
		next++
	}
	for _, c := range labels {
		group := members[c]
		if len(group) == 1 {
			assign(group)
			continue
		}
		for _, comp := range s.g.Components(group) {
			assign(comp)
		}
	}

	for c := range s.size {
		s.size[c] = 0
		s.tot[c] = 0
	}
	for i := 0; i < n; i++ {
		s.size[s.comm[i]]++
		s.tot[s.comm[i]] += s.k[i]
	}
}
