// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package analytics

import (
	"math"
	"time"

	"github.com/tomtom215/cinegraph/internal/models"
)

const week = 7 * 24 * time.Hour

// summary aggregates the ratings given by a user or received by a movie.
type summary struct {
	count int
	sum   float64
	sumSq float64
	last  time.Time
}

func (s *summary) add(r models.Rating) {
	s.count++
	s.sum += r.Rating
	s.sumSq += r.Rating * r.Rating
	if r.Timestamp.After(s.last) {
		s.last = r.Timestamp
	}
}

func (s *summary) mean() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// variance is the population variance.
func (s *summary) variance() float64 {
	if s.count < 2 {
		return 0
	}
	m := s.mean()
	return math.Max(0, s.sumSq/float64(s.count)-m*m)
}

// activity indexes ratings by user and by movie.
type activity struct {
	users   map[int64]*summary
	movies  map[int64]*summary
	ratings []models.Rating
}

func newActivity(records []models.Rating) *activity {
	a := &activity{
		users:   make(map[int64]*summary),
		movies:  make(map[int64]*summary),
		ratings: records,
	}
	for _, r := range records {
		u := a.users[r.UserID]
		if u == nil {
			u = &summary{}
			a.users[r.UserID] = u
		}
		u.add(r)
		m := a.movies[r.ItemID]
		if m == nil {
			m = &summary{}
			a.movies[r.ItemID] = m
		}
		m.add(r)
	}
	return a
}

// of returns the summary behind a user or movie node, or nil.
func (a *activity) of(n *models.Node) *summary {
	switch d := n.Data.(type) {
	case *models.UserData:
		return a.users[d.UserID]
	case *models.MovieData:
		return a.movies[d.MovieID]
	}
	return nil
}

// engagement measures how many of the graph's users rated within window
// and how much they rated.
func (a *activity) engagement(nodes []models.Node, now time.Time, window time.Duration) models.EngagementMetrics {
	out := models.EngagementMetrics{WindowDays: int(window / (24 * time.Hour))}
	cutoff := now.Add(-window)

	recent := 0
	for i := range nodes {
		d, ok := nodes[i].Data.(*models.UserData)
		if !ok {
			continue
		}
		out.TotalUsers++
		if s := a.users[d.UserID]; s != nil && !s.last.Before(cutoff) && !s.last.IsZero() {
			out.ActiveUsers++
		}
	}
	for _, r := range a.ratings {
		if !r.Timestamp.IsZero() && !r.Timestamp.Before(cutoff) {
			recent++
		}
	}

	if out.TotalUsers > 0 {
		out.EngagementRate = float64(out.ActiveUsers) / float64(out.TotalUsers)
	}
	if out.ActiveUsers > 0 {
		out.AverageReviewsPerUser = float64(recent) / float64(out.ActiveUsers)
	}
	score := out.EngagementRate*50 + math.Min(out.AverageReviewsPerUser/5, 1)*50

	out.EngagementRate = round(out.EngagementRate, 3)
	out.AverageReviewsPerUser = round(out.AverageReviewsPerUser, 2)
	out.EngagementScore = round(score, 2)
	return out
}

// growth counts ratings of the last week and of the week before.
func (a *activity) growth(now time.Time) Growth {
	var g Growth
	recentFrom, priorFrom := now.Add(-week), now.Add(-2*week)
	for _, r := range a.ratings {
		switch ts := r.Timestamp; {
		case ts.IsZero():
		case !ts.Before(recentFrom):
			g.Recent++
		case !ts.Before(priorFrom):
			g.Prior++
		}
	}
	return g
}
