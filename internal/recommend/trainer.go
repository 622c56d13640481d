// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/similarity"
)

// ModelVersion tags artifacts written by Trainer.
const ModelVersion = "svd-bias-v1"

// ErrNoRatings is returned when there is nothing to train on.
var ErrNoRatings = errors.New("no ratings to train on")

// TrainConfig configures model fitting.
type TrainConfig struct {
	// Factors is the number of latent factors. It is capped at one less than
	// the smaller matrix dimension.
	Factors int

	// Damping shrinks each bias towards zero by adding pseudo-observations.
	// Attribute-level user biases use twice this value.
	Damping float64

	// HalfLife is the age at which a rating counts half as much as the
	// newest rating. MinWeight floors the decay.
	HalfLife  time.Duration
	MinWeight float64

	// BiasIterations re-estimates attribute biases on fresh residuals.
	BiasIterations int

	// ResidualClip bounds residuals before factorization.
	ResidualClip float64

	// MinLanguageRatings is the rating count a language needs to get biases.
	MinLanguageRatings int

	// ExtrapolateThrough fills year biases past the newest training year
	// with the mean of the last five known years.
	ExtrapolateThrough int
}

// DefaultTrainConfig returns the defaults used by the train command.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Factors:            50,
		Damping:            15,
		HalfLife:           3 * 365 * 24 * time.Hour,
		MinWeight:          0.1,
		BiasIterations:     3,
		ResidualClip:       3,
		MinLanguageRatings: 100,
		ExtrapolateThrough: 2030,
	}
}

// Trainer fits rating models.
type Trainer struct {
	cfg    TrainConfig
	now    func() time.Time
	logger zerolog.Logger
}

// NewTrainer creates a trainer. Zero fields take their defaults.
func NewTrainer(cfg TrainConfig) *Trainer {
	def := DefaultTrainConfig()
	if cfg.Factors <= 0 {
		cfg.Factors = def.Factors
	}
	if cfg.Damping < 0 {
		cfg.Damping = def.Damping
	}
	if cfg.HalfLife <= 0 {
		cfg.HalfLife = def.HalfLife
	}
	if cfg.MinWeight <= 0 {
		cfg.MinWeight = def.MinWeight
	}
	if cfg.BiasIterations <= 0 {
		cfg.BiasIterations = def.BiasIterations
	}
	if cfg.ResidualClip <= 0 {
		cfg.ResidualClip = def.ResidualClip
	}
	if cfg.MinLanguageRatings <= 0 {
		cfg.MinLanguageRatings = def.MinLanguageRatings
	}
	if cfg.ExtrapolateThrough == 0 {
		cfg.ExtrapolateThrough = def.ExtrapolateThrough
	}
	return &Trainer{
		cfg:    cfg,
		now:    time.Now,
		logger: logging.With().Str("component", "trainer").Logger(),
	}
}

// row is one training rating joined with its item attributes.
type row struct {
	user, item int64
	rating     float64
	weight     float64
	year       int
	decade     int
	genres     []string
	language   string
	bucket     string
}

// biasSet holds every learned bias.
type biasSet struct {
	global   float64
	year     map[int]float64
	item     map[int64]float64
	user     map[int64]float64
	genre    map[string]map[int64]float64
	decade   map[int]map[int64]float64
	language map[string]map[int64]float64
	runtime  map[string]map[int64]float64
}

// attributes is the sum of the user's attribute-level biases for r.
func (b *biasSet) attributes(r *row) float64 {
	s := 0.0
	for _, g := range r.genres {
		s += b.genre[g][r.user]
	}
	if r.decade != 0 {
		s += b.decade[r.decade][r.user]
	}
	s += b.language[r.language][r.user]
	s += b.runtime[r.bucket][r.user]
	return s
}

// Fit trains a model on records (0-10 scale) with catalog attributes from
// movies. Movies without ratings still contribute cold-start attributes.
func (t *Trainer) Fit(ctx context.Context, records []models.Rating, movies map[int64]models.Movie) (*Artifact, error) {
	if len(records) == 0 {
		return nil, ErrNoRatings
	}
	start := time.Now()

	rows := t.rows(records, movies)
	b := t.fitBiases(rows)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a, err := t.factorize(ctx, rows, b)
	if err != nil {
		return nil, err
	}
	a.GlobalMean = b.global
	a.YearBiases = b.year
	a.ItemBiases = b.item
	a.UserBiases = b.user
	a.UserGenreBiases = b.genre
	a.UserDecadeBiases = b.decade
	a.UserLanguageBiases = b.language
	a.UserRuntimeBiases = b.runtime
	fillCatalog(a, movies)

	a.Metadata = Metadata{
		TrainedAt:    t.now().UTC(),
		K:            len(a.Sigma),
		Damping:      t.cfg.Damping,
		NUsers:       len(a.UserToIdx),
		NItems:       len(a.ItemToIdx),
		NRatings:     len(rows),
		ModelVersion: ModelVersion,
	}

	t.logger.Info().
		Int("ratings", len(rows)).
		Int("users", a.Metadata.NUsers).
		Int("items", a.Metadata.NItems).
		Int("k", a.Metadata.K).
		Float64("global_mean", b.global).
		Dur("duration", time.Since(start)).
		Msg("model trained")
	return a, nil
}

func (t *Trainer) rows(records []models.Rating, movies map[int64]models.Movie) []row {
	var newest time.Time
	for i := range records {
		if records[i].Timestamp.After(newest) {
			newest = records[i].Timestamp
		}
	}
	halfLife := t.cfg.HalfLife.Seconds()

	rows := make([]row, len(records))
	for i := range records {
		r := &records[i]
		w := 1.0
		if !r.Timestamp.IsZero() {
			age := newest.Sub(r.Timestamp).Seconds()
			w = clamp(math.Exp(-math.Ln2*age/halfLife), t.cfg.MinWeight, 1)
		}
		m := movies[r.ItemID]
		rows[i] = row{
			user:     r.UserID,
			item:     r.ItemID,
			rating:   r.Rating / displayScale,
			weight:   w,
			year:     m.Year,
			decade:   similarity.Decade(m.Year),
			genres:   m.GenreNames(),
			language: m.Language,
			bucket:   similarity.RuntimeBucket(m.RuntimeMinutes),
		}
	}
	return rows
}

// weighted accumulates a damped weighted mean.
type weighted struct{ sum, weight float64 }

type accumulator[K comparable] map[K]*weighted

func (a accumulator[K]) add(k K, w, x float64) {
	acc, ok := a[k]
	if !ok {
		acc = &weighted{}
		a[k] = acc
	}
	acc.sum += w * x
	acc.weight += w
}

func (a accumulator[K]) damped(d float64) map[K]float64 {
	out := make(map[K]float64, len(a))
	for k, acc := range a {
		out[k] = acc.sum / (acc.weight + d)
	}
	return out
}

// userAccumulator accumulates per (attribute, user).
type userAccumulator[K comparable] map[K]accumulator[int64]

func (a userAccumulator[K]) add(k K, user int64, w, x float64) {
	inner, ok := a[k]
	if !ok {
		inner = make(accumulator[int64])
		a[k] = inner
	}
	inner.add(user, w, x)
}

func (a userAccumulator[K]) damped(d float64) map[K]map[int64]float64 {
	out := make(map[K]map[int64]float64, len(a))
	for k, inner := range a {
		out[k] = inner.damped(d)
	}
	return out
}

// fitBiases estimates the bias hierarchy. Each level is fitted on the
// residual left by the levels before it.
func (t *Trainer) fitBiases(rows []row) *biasSet {
	d := t.cfg.Damping
	b := &biasSet{
		genre:    map[string]map[int64]float64{},
		decade:   map[int]map[int64]float64{},
		language: map[string]map[int64]float64{},
		runtime:  map[string]map[int64]float64{},
	}

	var sum, wsum float64
	for i := range rows {
		sum += rows[i].weight * rows[i].rating
		wsum += rows[i].weight
	}
	b.global = sum / wsum

	years := accumulator[int]{}
	for i := range rows {
		if rows[i].year != 0 {
			years.add(rows[i].year, rows[i].weight, rows[i].rating-b.global)
		}
	}
	b.year = extrapolateYears(years.damped(d), t.cfg.ExtrapolateThrough)

	items := accumulator[int64]{}
	for i := range rows {
		r := &rows[i]
		items.add(r.item, r.weight, r.rating-b.global-b.year[r.year])
	}
	b.item = items.damped(d)

	users := accumulator[int64]{}
	for i := range rows {
		r := &rows[i]
		users.add(r.user, r.weight, r.rating-b.global-b.year[r.year]-b.item[r.item])
	}
	b.user = users.damped(d)

	base := make([]float64, len(rows))
	langCount := map[string]int{}
	for i := range rows {
		r := &rows[i]
		base[i] = r.rating - b.global - b.year[r.year] - b.item[r.item] - b.user[r.user]
		if r.language != "" {
			langCount[r.language]++
		}
	}
	significant := func(lang string) bool {
		return lang != "" && langCount[lang] >= t.cfg.MinLanguageRatings
	}

	d2 := 2 * d
	res := make([]float64, len(rows))
	for iter := 0; iter < t.cfg.BiasIterations; iter++ {
		for i := range rows {
			res[i] = base[i] - b.attributes(&rows[i])
		}

		genres := userAccumulator[string]{}
		for i := range rows {
			for _, g := range rows[i].genres {
				genres.add(g, rows[i].user, rows[i].weight, res[i])
			}
		}
		genre := genres.damped(d2)
		for i := range rows {
			for _, g := range rows[i].genres {
				res[i] -= genre[g][rows[i].user]
			}
		}

		decades := userAccumulator[int]{}
		for i := range rows {
			if rows[i].decade != 0 {
				decades.add(rows[i].decade, rows[i].user, rows[i].weight, res[i])
			}
		}
		decade := decades.damped(d2)
		for i := range rows {
			res[i] -= decade[rows[i].decade][rows[i].user]
		}

		langs := userAccumulator[string]{}
		for i := range rows {
			if significant(rows[i].language) {
				langs.add(rows[i].language, rows[i].user, rows[i].weight, res[i])
			}
		}
		language := langs.damped(d2)
		for i := range rows {
			res[i] -= language[rows[i].language][rows[i].user]
		}

		buckets := userAccumulator[string]{}
		for i := range rows {
			buckets.add(rows[i].bucket, rows[i].user, rows[i].weight, res[i])
		}

		b.genre = genre
		b.decade = decade
		b.language = language
		b.runtime = buckets.damped(d2)
	}
	return b
}

// extrapolateYears fills years after the newest known year (1950 or later)
// through `through` with the mean bias of the last five known years.
func extrapolateYears(years map[int]float64, through int) map[int]float64 {
	newest := 0
	for y := range years {
		if y >= 1950 && y > newest {
			newest = y
		}
	}
	if newest == 0 {
		return years
	}
	var sum float64
	var n int
	for y := newest - 4; y <= newest; y++ {
		if b, ok := years[y]; ok && y >= 1950 {
			sum += b
			n++
		}
	}
	avg := sum / float64(n)
	for y := newest + 1; y <= through; y++ {
		years[y] = avg
	}
	return years
}

// factorize builds the clipped residual matrix and keeps the top singular
// triplets.
func (t *Trainer) factorize(ctx context.Context, rows []row, b *biasSet) (*Artifact, error) {
	userIdx, users := index(rows, func(r *row) int64 { return r.user })
	itemIdx, items := index(rows, func(r *row) int64 { return r.item })

	clip := t.cfg.ResidualClip
	R := mat.NewDense(len(users), len(items), nil)
	for i := range rows {
		r := &rows[i]
		res := r.rating - b.global - b.year[r.year] - b.item[r.item] - b.user[r.user] - b.attributes(r)
		R.Set(userIdx[r.user], itemIdx[r.item], clamp(res, -clip, clip))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := min(t.cfg.Factors, max(1, min(len(users), len(items))-1))

	var svd mat.SVD
	if ok := svd.Factorize(R, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed for %dx%d residuals", len(users), len(items))
	}
	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	k = min(k, len(values))

	a := &Artifact{
		U:         make([][]float64, len(users)),
		Sigma:     append([]float64(nil), values[:k]...),
		Vt:        make([][]float64, k),
		UserToIdx: userIdx,
		ItemToIdx: itemIdx,
	}
	for i := range users {
		a.U[i] = append([]float64(nil), u.RawRowView(i)[:k]...)
	}
	for f := 0; f < k; f++ {
		a.Vt[f] = make([]float64, len(items))
		for j := range items {
			a.Vt[f][j] = v.At(j, f)
		}
	}
	return a, nil
}

// index assigns dense indices to IDs in ascending order.
func index(rows []row, id func(*row) int64) (map[int64]int, []int64) {
	seen := make(map[int64]bool)
	var ids []int64
	for i := range rows {
		k := id(&rows[i])
		if !seen[k] {
			seen[k] = true
			ids = append(ids, k)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	idx := make(map[int64]int, len(ids))
	for i, k := range ids {
		idx[k] = i
	}
	return idx, ids
}

// fillCatalog records the attributes needed to score items at prediction
// time, including items no one rated yet.
func fillCatalog(a *Artifact, movies map[int64]models.Movie) {
	a.ItemGenres = make(map[int64][]string)
	a.ItemLanguage = make(map[int64]string)
	a.ItemRuntimeBucket = make(map[int64]string)
	a.ItemVotes = make(map[int64]VoteData)
	a.ItemYear = make(map[int64]int)
	for id, m := range movies {
		if g := m.GenreNames(); len(g) > 0 {
			a.ItemGenres[id] = g
		}
		if m.Language != "" {
			a.ItemLanguage[id] = m.Language
		}
		a.ItemRuntimeBucket[id] = similarity.RuntimeBucket(m.RuntimeMinutes)
		if m.VoteCount > 0 {
			a.ItemVotes[id] = VoteData{VoteAverage: m.VoteAverage, VoteCount: m.VoteCount}
		}
		if m.Year != 0 {
			a.ItemYear[id] = m.Year
		}
	}
}
