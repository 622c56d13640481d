// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package services

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// ModelLoader loads and publishes a model artifact. *recommend.ModelHolder
// satisfies it and keeps the previous model when a load fails.
type ModelLoader interface {
	Load(path string) error
}

// ModelReloadConfig configures the reloader.
type ModelReloadConfig struct {
	// Path is the artifact. Empty leaves the recommender on popularity.
	Path string

	// Interval between modification checks. Zero loads once at start.
	Interval time.Duration
}

// ModelReloadService loads the model at start and reloads it whenever the
// artifact's modification time changes. Load failures are logged and counted
// but never returned, so suture does not restart the service over a bad
// artifact and the last good model keeps serving.
type ModelReloadService struct {
	loader   ModelLoader
	cfg      ModelReloadConfig
	onReload func()
	modTime  time.Time
	logger   zerolog.Logger
}

// NewModelReloadService creates the service. onReload, if non-nil, runs
// after every successful load; serve uses it to drop cached graphs whose
// predictions came from the previous model.
func NewModelReloadService(loader ModelLoader, cfg ModelReloadConfig, onReload func()) *ModelReloadService {
	return &ModelReloadService{
		loader:   loader,
		cfg:      cfg,
		onReload: onReload,
		logger:   logging.With().Str("service", "model-reloader").Logger(),
	}
}

// Serve implements suture.Service.
func (s *ModelReloadService) Serve(ctx context.Context) error {
	if s.cfg.Path == "" {
		s.logger.Info().Msg("no model path configured, recommendations use popularity")
		<-ctx.Done()
		return ctx.Err()
	}

	s.reload(ctx, true)
	if s.cfg.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.reload(ctx, false)
		}
	}
}

// reload loads the artifact when force is set or its mtime moved.
func (s *ModelReloadService) reload(ctx context.Context, force bool) {
	log := logging.WithContext(logging.ContextWithRunID(ctx, logging.NewRunID()), s.logger)

	info, err := os.Stat(s.cfg.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", s.cfg.Path).Msg("model artifact unavailable")
		metrics.RecordModelReload(err)
		return
	}
	if !force && info.ModTime().Equal(s.modTime) {
		return
	}

	err = s.loader.Load(s.cfg.Path)
	metrics.RecordModelReload(err)
	if err != nil {
		// the loader has already logged the cause
		return
	}
	s.modTime = info.ModTime()
	log.Debug().Time("mod_time", s.modTime).Msg("model reloaded")
	if s.onReload != nil {
		s.onReload()
	}
}

func (s *ModelReloadService) String() string {
	return "model-reloader"
}
