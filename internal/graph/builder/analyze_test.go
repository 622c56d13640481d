// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package builder

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/tomtom215/cinegraph/internal/graph/centrality"
	"github.com/tomtom215/cinegraph/internal/graph/community"
	"github.com/tomtom215/cinegraph/internal/models"
)

type stubDetector struct {
	result *models.CommunityResult
	err    error
}

func (d stubDetector) Detect(context.Context, []models.Node, []models.Edge) (*models.CommunityResult, error) {
	return d.result, d.err
}

type stubCalculator struct {
	result *models.CentralityResult
	err    error
}

func (c stubCalculator) Calculate(context.Context, []models.Node, []models.Edge) (*models.CentralityResult, error) {
	return c.result, c.err
}

func TestBuild_PartialAnalytics(t *testing.T) {
	failedCommunities := func(community.Config, community.CollectionNamer) (communityDetector, error) {
		return stubDetector{result: &models.CommunityResult{Method: community.MethodFailed}}, nil
	}
	brokenDetector := func(community.Config, community.CollectionNamer) (communityDetector, error) {
		return stubDetector{err: errors.New("partition diverged")}, nil
	}

	tests := []struct {
		name            string
		detector        func(community.Config, community.CollectionNamer) (communityDetector, error)
		calculator      centralityCalculator
		wantCommunities bool
		wantCentrality  bool
		wantFailed      []string
	}{
		{
			name:           "community strategies exhausted",
			detector:       failedCommunities,
			wantCentrality: true,
			wantFailed:     []string{models.StageCommunities},
		},
		{
			name:           "detector error",
			detector:       brokenDetector,
			wantCentrality: true,
			wantFailed:     []string{models.StageCommunities},
		},
		{
			name:            "centrality failed",
			calculator:      stubCalculator{result: &models.CentralityResult{Method: centrality.MethodFailed}},
			wantCommunities: true,
			wantFailed:      []string{models.StageCentrality},
		},
		{
			name:            "centrality error",
			calculator:      stubCalculator{err: errors.New("no convergence")},
			wantCommunities: true,
			wantFailed:      []string{models.StageCentrality},
		},
		{
			name:       "both failed",
			detector:   brokenDetector,
			calculator: stubCalculator{err: errors.New("no convergence")},
			wantFailed: []string{models.StageCommunities, models.StageCentrality},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t, fixtureRatings(), fixtureMovies(), defaultPredictor())
			if tt.detector != nil {
				b.newDetector = tt.detector
			}
			if tt.calculator != nil {
				b.centrality = tt.calculator
			}

			g, err := b.Build(context.Background(), DefaultRequest(1))
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			a := g.Analytics
			if got := a.Communities != nil; got != tt.wantCommunities {
				t.Errorf("communities present = %v, want %v", got, tt.wantCommunities)
			}
			if got := a.Centrality != nil; got != tt.wantCentrality {
				t.Errorf("centrality present = %v, want %v", got, tt.wantCentrality)
			}
			if !slices.Equal(a.FailedStages, tt.wantFailed) {
				t.Errorf("failed stages = %v, want %v", a.FailedStages, tt.wantFailed)
			}
			if a.Health == nil || a.TopInfluencers == nil {
				t.Errorf("health and influencers must survive a failed stage: %+v", a)
			}
			if a.IsEmpty() || a.Skipped != "" {
				t.Errorf("analytics = %+v, want a partial block", a)
			}

			for i := range g.Nodes {
				n := &g.Nodes[i]
				if !tt.wantCommunities && n.Community != "" {
					t.Errorf("%s has community %q without detection", n.ID, n.Community)
				}
				if !tt.wantCentrality && n.Centrality != nil {
					t.Errorf("%s has centrality without a calculation", n.ID)
				}
				if tt.wantCentrality && n.Centrality == nil {
					t.Errorf("%s lost its centrality", n.ID)
				}
			}
		})
	}
}

func TestBuild_AnalyticsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := newBuilder(t, fixtureRatings(), fixtureMovies(), defaultPredictor())
	b.centrality = calculatorFunc(func() (*models.CentralityResult, error) {
		cancel()
		return nil, context.Canceled
	})

	if _, err := b.Build(ctx, DefaultRequest(1)); !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

type calculatorFunc func() (*models.CentralityResult, error)

func (f calculatorFunc) Calculate(context.Context, []models.Node, []models.Edge) (*models.CentralityResult, error) {
	return f()
}
