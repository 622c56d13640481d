// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"errors"
	"fmt"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/graph/builder"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/ratings"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/recommend/reranking"
	"github.com/tomtom215/cinegraph/internal/store"
)

// app wires the store, caches, recommender and graph builder that the
// query commands and serve share.
type app struct {
	cfg         *config.Config
	store       *store.Badger
	catalog     *catalog.Cache
	ratings     *ratings.Extractor
	models      *recommend.ModelHolder
	recommender *recommend.Recommender
	graphs      *builder.Service
}

// openApp opens the store and builds the pipeline on top of it. With
// loadModel set, the configured model is loaded up front; a failed load is
// logged and the recommender falls back to popularity.
func openApp(cfg *config.Config, loadModel bool) (*app, error) {
	st, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		store:   st,
		catalog: catalog.NewCache(st, cfg.CatalogCacheOptions()),
		ratings: ratings.NewExtractor(st, cfg.ExtractorOptions()),
		models:  recommend.NewModelHolder(),
	}

	recCfg := cfg.RecommendOptions()
	if loadModel && recCfg.ModelPath != "" {
		if err := a.models.Load(recCfg.ModelPath); err != nil {
			logging.Warn().
				Err(err).
				Str("path", recCfg.ModelPath).
				Msg("continuing without a model, popularity fallback in effect")
		}
	}

	rec, err := recommend.NewRecommender(recCfg, a.models, a.ratings, a.catalog)
	if err != nil {
		return nil, errors.Join(err, st.Close())
	}
	rec.SetReranker(reranking.NewMMR(recCfg.MMRLambda))
	rec.SetFallbackPredictor(recommend.NewNeighborhood(a.ratings, a.catalog, recCfg.Neighborhood))
	a.recommender = rec

	b, err := builder.New(cfg.BuilderOptions(), a.ratings, a.catalog, rec)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("graph builder: %w", err), st.Close())
	}
	a.graphs = builder.NewService(b, cfg.Cache.GraphTTL)
	return a, nil
}

// Close stops the graph cache and closes the store.
func (a *app) Close() error {
	a.graphs.Close()
	return a.store.Close()
}

// withApp runs fn against an app that is closed afterwards.
func withApp(cfg *config.Config, loadModel bool, fn func(*app) error) (err error) {
	a, err := openApp(cfg, loadModel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
		}
	}()
	return fn(a)
}
