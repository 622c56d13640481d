// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/ratings"
	"github.com/tomtom215/cinegraph/internal/similarity"
)

// Recommender produces recommendation lists from the current model, with a
// popularity fallback. It is safe for concurrent use.
type Recommender struct {
	cfg    *Config
	holder *ModelHolder
	ex     *ratings.Extractor
	src    catalog.Source
	logger zerolog.Logger

	reranker Reranker
	fallback Predictor

	// now decides which movies are released.
	now func() time.Time
}

// NewRecommender creates a recommender.
func NewRecommender(cfg *Config, holder *ModelHolder, ex *ratings.Extractor, src catalog.Source) (*Recommender, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Recommender{
		cfg:    cfg,
		holder: holder,
		ex:     ex,
		src:    src,
		logger: logging.With().Str("component", "recommend").Logger(),
		now:    time.Now,
	}, nil
}

// SetReranker installs the diversity reranker. Without one the scored pool
// is truncated.
func (r *Recommender) SetReranker(rr Reranker) {
	r.reranker = rr
	r.logger.Info().Str("reranker", rr.Name()).Msg("registered reranker")
}

// SetFallbackPredictor installs the predictor used by Predictions when the
// model cannot score the user.
func (r *Recommender) SetFallbackPredictor(p Predictor) {
	r.fallback = p
}

// Recommend returns up to limit items for userID.
func (r *Recommender) Recommend(ctx context.Context, userID int64, limit int, scope Scope) (*Response, error) {
	start := time.Now()
	limit = r.limit(limit)
	if scope == "" {
		scope = ScopeUnrated
	}

	rated, err := r.ex.UserRatings(ctx, userID)
	if err != nil {
		return nil, err
	}
	exclude := make(map[int64]bool)
	if scope == ScopeUnrated {
		for id := range rated {
			exclude[id] = true
		}
	}

	logger := r.logger.With().Int64("user_id", userID).Int("limit", limit).Str("scope", string(scope)).Logger()

	var resp *Response
	model := r.holder.Current()
	if model == nil || !model.KnowsUser(userID) {
		resp, err = r.popular(ctx, exclude, limit)
	} else {
		resp, err = r.personalized(ctx, model, userID, rated, exclude, limit)
	}
	if err != nil {
		return nil, err
	}

	metrics.Recommendations.WithLabelValues(resp.Method).Inc()
	logger.Debug().
		Str("method", resp.Method).
		Int("items", len(resp.Items)).
		Int("candidates", resp.TotalCandidates).
		Dur("duration", time.Since(start)).
		Msg("recommendations generated")
	return resp, nil
}

// Predictions implements Predictor. Users the model can score get model
// recommendations; everyone else goes to the fallback predictor.
func (r *Recommender) Predictions(ctx context.Context, userID int64, limit int) ([]Recommendation, error) {
	if m := r.holder.Current(); m != nil && m.KnowsUser(userID) {
		resp, err := r.Recommend(ctx, userID, limit, ScopeUnrated)
		if err != nil {
			return nil, err
		}
		return resp.Items, nil
	}
	if r.fallback != nil {
		return r.fallback.Predictions(ctx, userID, limit)
	}
	return nil, nil
}

func (r *Recommender) limit(limit int) int {
	if limit <= 0 {
		return r.cfg.DefaultLimit
	}
	return min(limit, r.cfg.MaxLimit)
}

// popular ranks locally rated items by average rating.
func (r *Recommender) popular(ctx context.Context, exclude map[int64]bool, limit int) (*Response, error) {
	stats, err := r.ex.ItemPopularity(ctx, exclude)
	if err != nil {
		return nil, err
	}
	total := len(stats)
	if len(stats) > limit {
		stats = stats[:limit]
	}

	ids := make([]int64, len(stats))
	for i := range stats {
		ids[i] = stats[i].ItemID
	}
	movies, err := r.src.Movies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("popularity titles: %w", err)
	}

	items := make([]Recommendation, len(stats))
	for i, s := range stats {
		items[i] = Recommendation{
			ItemID:          s.ItemID,
			Title:           movies[s.ItemID].Title,
			PredictedRating: s.AvgRating,
			Contributors:    s.ReviewCount,
			Reason:          fmt.Sprintf("Rated %.1f on average by %d local users", s.AvgRating, s.ReviewCount),
		}
	}
	return &Response{Method: MethodPopularity, Items: items, TotalCandidates: total}, nil
}

// personalized scores every eligible, released catalog item with the
// model, blends in content similarity to the movies the user liked, keeps
// an oversampled pool and reranks it.
func (r *Recommender) personalized(ctx context.Context, model *Model, userID int64, rated map[int64]float64, exclude map[int64]bool, limit int) (*Response, error) {
	all, err := catalog.ScanAll(ctx, r.src)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	profile := r.contentProfile(all, rated)
	weight := r.cfg.Content.Weight
	if profile == nil {
		weight = 0
	}

	year := r.now().Year()
	scored := make([]ScoredItem, 0, len(all))
	for i := range all {
		movie := &all[i]
		if exclude[movie.ID] || movie.Year > year {
			continue
		}
		info := itemInfo(model, movie)
		predicted := model.Predict(userID, info)
		content := profile.Score(movie)
		scored = append(scored, ScoredItem{
			Item: Item{
				ID:    movie.ID,
				Title: movie.Title,
				Features: similarity.ItemFeatures{
					Genres:        info.Genres,
					Language:      info.Language,
					RuntimeBucket: info.RuntimeBucket,
					Decade:        similarity.Decade(info.Year),
				},
			},
			Score:     blend(predicted, content, weight),
			Predicted: predicted,
			Content:   content,
			Reason:    reason(model, userID, info),
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Item.ID < scored[j].Item.ID
	})
	pool := scored
	if n := r.cfg.Oversample * limit; len(pool) > n {
		pool = pool[:n]
	}

	var picked []ScoredItem
	if r.reranker != nil {
		picked = r.reranker.Rerank(ctx, pool, limit)
	} else {
		picked = pool[:min(limit, len(pool))]
	}

	pickedIDs := make([]int64, len(picked))
	for i := range picked {
		pickedIDs[i] = picked[i].Item.ID
	}
	stats, err := r.ex.MovieStats(ctx, pickedIDs)
	if err != nil {
		return nil, err
	}

	items := make([]Recommendation, len(picked))
	for i := range picked {
		p := &picked[i]
		items[i] = Recommendation{
			ItemID:          p.Item.ID,
			Title:           p.Item.Title,
			PredictedRating: p.Predicted,
			Contributors:    stats[p.Item.ID].ReviewCount,
			Reason:          p.Reason,
			ContentScore:    math.Round(p.Content*1000) / 1000,
		}
	}
	return &Response{Method: MethodSVD, Items: items, TotalCandidates: len(scored)}, nil
}

// contentProfile collects the movies userID rated at or above the liked
// threshold. It returns nil when content blending is off or nothing was
// liked.
func (r *Recommender) contentProfile(all []models.Movie, rated map[int64]float64) *ContentProfile {
	if r.cfg.Content.Weight == 0 {
		return nil
	}
	var liked []models.Movie
	for i := range all {
		if v, ok := rated[all[i].ID]; ok && v >= r.cfg.Content.LikedThreshold {
			liked = append(liked, all[i])
		}
	}
	return NewContentProfile(liked, r.cfg.Content.TopCast)
}

// PredictRating predicts userID's rating of itemID on the 0-10 scale. year
// overrides the release year when non-zero. Catalog attributes fill in
// whatever the model did not store, so items released after training still
// get a cold-start estimate.
func (r *Recommender) PredictRating(ctx context.Context, userID, itemID int64, year int) (*Prediction, error) {
	model := r.holder.Current()
	if model == nil {
		return nil, ErrModelNotLoaded
	}

	info := model.Info(itemID, year)
	movies, err := r.src.Movies(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}
	title := ""
	if m, ok := movies[itemID]; ok {
		if year != 0 {
			m.Year = year
		}
		info = itemInfo(model, &m)
		title = m.Title
	}

	return &Prediction{
		UserID:          userID,
		ItemID:          itemID,
		Title:           title,
		Year:            info.Year,
		PredictedRating: model.Predict(userID, info),
		KnownUser:       model.KnowsUser(userID),
		KnownItem:       model.KnowsItem(itemID),
	}, nil
}

// itemInfo prefers the attributes stored with the model and fills gaps from
// the catalog record.
func itemInfo(model *Model, movie *models.Movie) ItemInfo {
	info := model.Info(movie.ID, movie.Year)
	if len(info.Genres) == 0 {
		info.Genres = movie.GenreNames()
	}
	if info.Language == "" {
		info.Language = movie.Language
	}
	if info.RuntimeBucket == "" {
		info.RuntimeBucket = similarity.RuntimeBucket(movie.RuntimeMinutes)
	}
	if info.Votes.VoteCount == 0 && movie.VoteCount > 0 {
		info.Votes = VoteData{VoteAverage: movie.VoteAverage, VoteCount: movie.VoteCount}
	}
	return info
}

func reason(model *Model, userID int64, info ItemInfo) string {
	if g := model.FavoriteGenre(userID, info.Genres); g != "" {
		return fmt.Sprintf("You tend to rate %s highly", g)
	}
	if !model.KnowsItem(info.ID) {
		return "New to the catalog and close to your taste"
	}
	return "Predicted from your rating history"
}

var _ Predictor = (*Recommender)(nil)
