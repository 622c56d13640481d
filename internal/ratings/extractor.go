// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package ratings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

// ErrStoreUnavailable is returned when the circuit breaker rejects a call.
var ErrStoreUnavailable = errors.New("rating store unavailable")

// Config configures the extractor.
type Config struct {
	// BatchSize is the maximum number of IDs sent to the store per call.
	BatchSize int

	// BreakerName identifies the circuit breaker in logs and metrics.
	BreakerName string

	// MaxRequests is the number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic reset period for counts.
	Interval time.Duration

	// Timeout is the duration in open state before transitioning to half-open.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold uint32
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:        500,
		BreakerName:      "rating-store",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}

// Extractor reads ratings through a Store.
type Extractor struct {
	store   Store
	cfg     Config
	breaker *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger
}

// NewExtractor creates an extractor over store.
func NewExtractor(store Store, cfg Config) *Extractor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = DefaultConfig().BreakerName
	}

	e := &Extractor{
		store:  store,
		cfg:    cfg,
		logger: logging.With().Str("component", "ratings").Logger(),
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = DefaultConfig().FailureThreshold
	}
	e.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.BreakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String(), int(to))
			e.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("rating store circuit breaker changed state")
		},
	})
	return e
}

// isSuccessful treats caller cancellation as success so that abandoned
// requests cannot open the breaker for healthy ones.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// execute runs fn through the circuit breaker.
func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, nil
	}
	return v, nil
}

// batches splits ids into sorted, de-duplicated chunks of at most size.
func batches(ids []int64, size int) [][]int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	uniq := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	var out [][]int64
	for start := 0; start < len(uniq); start += size {
		end := start + size
		if end > len(uniq) {
			end = len(uniq)
		}
		out = append(out, uniq[start:end])
	}
	return out
}

func (e *Extractor) byUsers(ctx context.Context, userIDs []int64) ([]models.Rating, error) {
	var all []models.Rating
	for _, batch := range batches(userIDs, e.cfg.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := execute(e.breaker, func() ([]models.Rating, error) {
			return e.store.RatingsByUsers(ctx, batch)
		})
		if err != nil {
			return nil, fmt.Errorf("fetch ratings by users: %w", err)
		}
		all = append(all, recs...)
	}
	return all, nil
}

func (e *Extractor) byItems(ctx context.Context, itemIDs []int64) ([]models.Rating, error) {
	var all []models.Rating
	for _, batch := range batches(itemIDs, e.cfg.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := execute(e.breaker, func() ([]models.Rating, error) {
			return e.store.RatingsByItems(ctx, batch)
		})
		if err != nil {
			return nil, fmt.Errorf("fetch ratings by items: %w", err)
		}
		all = append(all, recs...)
	}
	return all, nil
}

// MovieStats returns rating statistics for each item that has ratings.
// Items without ratings are absent from the result.
func (e *Extractor) MovieStats(ctx context.Context, itemIDs []int64) (map[int64]models.ItemStats, error) {
	out := make(map[int64]models.ItemStats)
	if len(itemIDs) == 0 {
		return out, nil
	}
	recs, err := e.byItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]float64)
	for _, r := range recs {
		grouped[r.ItemID] = append(grouped[r.ItemID], r.Rating)
	}
	for item, values := range grouped {
		out[item] = itemStats(item, values)
	}
	return out, nil
}

func itemStats(item int64, values []float64) models.ItemStats {
	mean, std := stat.PopMeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return models.ItemStats{
		ItemID:       item,
		AvgRating:    mean,
		ReviewCount:  len(values),
		RatingStdDev: std,
	}
}

// UserRatingRecords returns the raw rating records of the given users,
// timestamps included.
func (e *Extractor) UserRatingRecords(ctx context.Context, userIDs []int64) ([]models.Rating, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	return e.byUsers(ctx, userIDs)
}

// UserRatingMatrix returns the ratings of the given users.
func (e *Extractor) UserRatingMatrix(ctx context.Context, userIDs []int64) (Matrix, error) {
	recs, err := e.UserRatingRecords(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	return NewMatrix(recs), nil
}

// UserRatings returns a single user's ratings keyed by item.
func (e *Extractor) UserRatings(ctx context.Context, userID int64) (map[int64]float64, error) {
	m, err := e.UserRatingMatrix(ctx, []int64{userID})
	if err != nil {
		return nil, err
	}
	if row, ok := m[userID]; ok {
		return row, nil
	}
	return map[int64]float64{}, nil
}

// ItemMeans returns the mean rating of each rated item.
func (e *Extractor) ItemMeans(ctx context.Context, itemIDs []int64) (map[int64]float64, error) {
	stats, err := e.MovieStats(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	means := make(map[int64]float64, len(stats))
	for id, s := range stats {
		means[id] = s.AvgRating
	}
	return means, nil
}

// ReviewCounts returns the number of ratings per user.
func (e *Extractor) ReviewCounts(ctx context.Context) (map[int64]int, error) {
	counts, err := execute(e.breaker, func() (map[int64]int, error) {
		return e.store.ReviewCounts(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch review counts: %w", err)
	}
	if counts == nil {
		counts = map[int64]int{}
	}
	return counts, nil
}

// ItemPopularity returns statistics for every rated item not in exclude,
// ordered by average rating, then review count, then item ID.
func (e *Extractor) ItemPopularity(ctx context.Context, exclude map[int64]bool) ([]models.ItemStats, error) {
	ids, err := execute(e.breaker, func() ([]int64, error) {
		return e.store.AllItemIDs(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch item ids: %w", err)
	}

	candidates := ids[:0:0]
	for _, id := range ids {
		if !exclude[id] {
			candidates = append(candidates, id)
		}
	}
	stats, err := e.MovieStats(ctx, candidates)
	if err != nil {
		return nil, err
	}

	out := make([]models.ItemStats, 0, len(stats))
	for _, s := range stats {
		if s.ReviewCount > 0 {
			out = append(out, s)
		}
	}
	SortByPopularity(out)
	return out, nil
}

// SortByPopularity orders stats by average rating, then review count,
// then item ID.
func SortByPopularity(stats []models.ItemStats) {
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.AvgRating != b.AvgRating {
			return a.AvgRating > b.AvgRating
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.ItemID < b.ItemID
	})
}
