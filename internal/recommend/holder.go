// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// ModelHolder publishes the current model. Readers never block; a reload
// replaces the pointer only after the new model loaded successfully.
type ModelHolder struct {
	current atomic.Pointer[Model]
	logger  zerolog.Logger
}

// NewModelHolder creates an empty holder.
func NewModelHolder() *ModelHolder {
	return &ModelHolder{logger: logging.With().Str("component", "model_holder").Logger()}
}

// Current returns the loaded model, or nil.
func (h *ModelHolder) Current() *Model {
	return h.current.Load()
}

// Store publishes m. A nil m clears the holder.
func (h *ModelHolder) Store(m *Model) {
	h.current.Store(m)
	if m == nil {
		metrics.ModelLoaded.Set(0)
		return
	}
	metrics.ModelLoaded.Set(1)
}

// Load reads the artifact at path and publishes it. On failure the
// previously loaded model, if any, stays in place.
func (h *ModelHolder) Load(path string) error {
	m, err := LoadModel(path)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("path", path).
			Bool("previous_model", h.Current() != nil).
			Msg("model load failed")
		return err
	}
	h.Store(m)

	meta := m.Metadata()
	h.logger.Info().
		Str("path", path).
		Str("version", meta.ModelVersion).
		Time("trained_at", meta.TrainedAt).
		Int("k", meta.K).
		Int("users", meta.NUsers).
		Int("items", meta.NItems).
		Msg("model loaded")
	return nil
}
