// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/cinegraph/internal/similarity"
)

// Rating bounds on the model scale. Predictions are reported doubled.
const (
	MinModelRating = 0.5
	MaxModelRating = 5.0
	displayScale   = 2.0
)

var (
	// ErrModelNotLoaded is returned when an operation needs a model and
	// none has been loaded.
	ErrModelNotLoaded = errors.New("recommendation model not loaded")

	// ErrInvalidArtifact is returned for artifacts with inconsistent shapes.
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// VoteData is the external vote summary of an item on a 0-10 scale.
type VoteData struct {
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

// Metadata describes a training run.
type Metadata struct {
	TrainedAt    time.Time `json:"trained_at"`
	K            int       `json:"k"`
	Damping      float64   `json:"damping"`
	NUsers       int       `json:"n_users"`
	NItems       int       `json:"n_items"`
	NRatings     int       `json:"n_ratings"`
	ModelVersion string    `json:"model_version"`
}

// Artifact is the serialized form of a trained model. User-level bias maps
// are keyed by attribute first, then user.
type Artifact struct {
	U     [][]float64 `json:"U"`
	Sigma []float64   `json:"Sigma"`
	Vt    [][]float64 `json:"Vt"`

	UserToIdx map[int64]int `json:"user_to_idx"`
	ItemToIdx map[int64]int `json:"item_to_idx"`

	GlobalMean float64           `json:"global_mean"`
	YearBiases map[int]float64   `json:"year_biases"`
	ItemBiases map[int64]float64 `json:"item_biases"`
	UserBiases map[int64]float64 `json:"user_biases"`

	UserGenreBiases    map[string]map[int64]float64 `json:"user_genre_biases"`
	UserDecadeBiases   map[int]map[int64]float64    `json:"user_decade_biases"`
	UserLanguageBiases map[string]map[int64]float64 `json:"user_language_biases"`
	UserRuntimeBiases  map[string]map[int64]float64 `json:"user_runtime_biases"`

	ItemGenres        map[int64][]string `json:"tmdb_to_genres"`
	ItemLanguage      map[int64]string   `json:"tmdb_to_language"`
	ItemRuntimeBucket map[int64]string   `json:"tmdb_to_runtime_bucket"`
	ItemVotes         map[int64]VoteData `json:"tmdb_vote_data"`
	ItemYear          map[int64]int      `json:"tmdb_id_to_year"`

	Metadata Metadata `json:"metadata"`
}

// ItemInfo is what the model needs to know about an item to score it.
type ItemInfo struct {
	ID            int64
	Year          int
	Genres        []string
	Language      string
	RuntimeBucket string
	Votes         VoteData
}

// Model is a loaded, immutable rating model.
type Model struct {
	a *Artifact

	// userScaled holds U·Σ so an interaction is a single dot product.
	userScaled *mat.Dense
	vt         *mat.Dense

	genres genreIndex
}

// NewModel validates a and precomputes the factor matrices.
func NewModel(a *Artifact) (*Model, error) {
	k := len(a.Sigma)
	nUsers := len(a.U)
	if k > 0 && len(a.Vt) != k {
		return nil, fmt.Errorf("%w: Vt has %d rows, want %d", ErrInvalidArtifact, len(a.Vt), k)
	}
	nItems := 0
	if k > 0 {
		nItems = len(a.Vt[0])
	}
	for i, row := range a.U {
		if len(row) != k {
			return nil, fmt.Errorf("%w: U row %d has %d columns, want %d", ErrInvalidArtifact, i, len(row), k)
		}
	}
	for i, row := range a.Vt {
		if len(row) != nItems {
			return nil, fmt.Errorf("%w: Vt row %d has %d columns, want %d", ErrInvalidArtifact, i, len(row), nItems)
		}
	}
	for u, idx := range a.UserToIdx {
		if idx < 0 || idx >= nUsers {
			return nil, fmt.Errorf("%w: user %d index %d out of range", ErrInvalidArtifact, u, idx)
		}
	}
	for it, idx := range a.ItemToIdx {
		if idx < 0 || idx >= nItems {
			return nil, fmt.Errorf("%w: item %d index %d out of range", ErrInvalidArtifact, it, idx)
		}
	}

	m := &Model{a: a}
	if k > 0 && nUsers > 0 && nItems > 0 {
		m.userScaled = mat.NewDense(nUsers, k, nil)
		for i, row := range a.U {
			for j, v := range row {
				m.userScaled.Set(i, j, v*a.Sigma[j])
			}
		}
		m.vt = mat.NewDense(k, nItems, nil)
		for i, row := range a.Vt {
			m.vt.SetRow(i, row)
		}
	}
	m.genres = newGenreIndex(a.ItemBiases, a.ItemGenres)
	return m, nil
}

// LoadModel reads a JSON artifact from path.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return NewModel(&a)
}

// SaveArtifact writes a as JSON to path.
func SaveArtifact(path string, a *Artifact) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// Metadata returns the training metadata.
func (m *Model) Metadata() Metadata {
	return m.a.Metadata
}

// KnowsUser reports whether the user was part of training.
func (m *Model) KnowsUser(userID int64) bool {
	_, ok := m.a.UserToIdx[userID]
	return ok
}

// KnowsItem reports whether the item was part of training.
func (m *Model) KnowsItem(itemID int64) bool {
	_, ok := m.a.ItemToIdx[itemID]
	return ok
}

// Info returns the stored attributes of an item. year overrides the stored
// release year when non-zero.
func (m *Model) Info(itemID int64, year int) ItemInfo {
	info := ItemInfo{
		ID:            itemID,
		Year:          m.a.ItemYear[itemID],
		Genres:        m.a.ItemGenres[itemID],
		Language:      m.a.ItemLanguage[itemID],
		RuntimeBucket: m.a.ItemRuntimeBucket[itemID],
		Votes:         m.a.ItemVotes[itemID],
	}
	if year != 0 {
		info.Year = year
	}
	return info
}

// PredictRating predicts the user's rating of an item on the 0-10 scale.
// year overrides the stored release year when non-zero.
func (m *Model) PredictRating(userID, itemID int64, year int) float64 {
	return m.Predict(userID, m.Info(itemID, year))
}

// Predict scores an item described by info on the 0-10 scale.
func (m *Model) Predict(userID int64, info ItemInfo) float64 {
	return clamp(m.raw(userID, info), MinModelRating, MaxModelRating) * displayScale
}

// raw is the unclamped model-scale prediction.
func (m *Model) raw(userID int64, info ItemInfo) float64 {
	a := m.a
	pred := a.GlobalMean

	if b, ok := a.ItemBiases[info.ID]; ok {
		pred += b
	} else {
		pred += m.ColdItemBias(info)
	}
	pred += a.UserBiases[userID]

	if info.Year != 0 {
		pred += a.YearBiases[info.Year]
		pred += a.UserDecadeBiases[similarity.Decade(info.Year)][userID]
	}
	for _, g := range info.Genres {
		pred += a.UserGenreBiases[g][userID]
	}
	if info.Language != "" {
		pred += a.UserLanguageBiases[info.Language][userID]
	}
	if info.RuntimeBucket != "" {
		pred += a.UserRuntimeBiases[info.RuntimeBucket][userID]
	}

	pred += m.interaction(userID, info.ID)
	return pred
}

// interaction is u·Σ·v, or 0 when the user or item is unknown.
func (m *Model) interaction(userID, itemID int64) float64 {
	if m.userScaled == nil {
		return 0
	}
	ui, okU := m.a.UserToIdx[userID]
	ii, okI := m.a.ItemToIdx[itemID]
	if !okU || !okI {
		return 0
	}
	return mat.Dot(m.userScaled.RowView(ui), m.vt.ColView(ii))
}

// FavoriteGenre returns the genre among genres with the largest positive
// user-genre bias, or "" when none is positive.
func (m *Model) FavoriteGenre(userID int64, genres []string) string {
	best, bestBias := "", 0.0
	for _, g := range genres {
		if b := m.a.UserGenreBiases[g][userID]; b > bestBias {
			best, bestBias = g, b
		}
	}
	return best
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
