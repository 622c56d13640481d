// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package models

import "time"

// Rating is a single user rating of a catalog item.
// Ratings are immutable once they enter the core.
type Rating struct {
	// UserID identifies the rating user
	UserID int64 `json:"user_id" validate:"gt=0"`

	// ItemID identifies the rated movie
	ItemID int64 `json:"item_id" validate:"gt=0"`

	// Rating is the score on the 0-10 display scale
	Rating float64 `json:"rating" validate:"gte=0,lte=10"`

	// Timestamp is when the rating was recorded
	Timestamp time.Time `json:"timestamp"`
}

// NamedEntity is a catalog entity with an identifier and display name
// (genre, country, keyword or person).
type NamedEntity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CastCredit is an acting credit on a movie.
type CastCredit struct {
	Person NamedEntity `json:"person"`

	// Order is the billing position (0 = lead)
	Order int `json:"order"`
}

// CrewCredit is a non-acting credit on a movie.
type CrewCredit struct {
	Person NamedEntity `json:"person"`

	// Role is the job title, e.g. "Director", "Writer", "Composer"
	Role string `json:"role"`
}

// Movie is the catalog record for a single film.
type Movie struct {
	// ID is the catalog identifier
	ID int64 `json:"id" validate:"gt=0"`

	// Title for display
	Title string `json:"title" validate:"required"`

	// Year is the release year (0 when unknown)
	Year int `json:"year,omitempty"`

	Genres    []NamedEntity `json:"genres,omitempty"`
	Countries []NamedEntity `json:"countries,omitempty"`
	Keywords  []NamedEntity `json:"keywords,omitempty"`
	Directors []NamedEntity `json:"directors,omitempty"`
	Cast      []CastCredit  `json:"cast,omitempty"`
	Crew      []CrewCredit  `json:"crew,omitempty"`

	// CollectionID links the movie to a franchise collection (nil when standalone)
	CollectionID *int64 `json:"collection_id,omitempty"`

	// Language is the original language code (e.g. "en")
	Language string `json:"language,omitempty"`

	// RuntimeMinutes is the running time (0 when unknown)
	RuntimeMinutes int `json:"runtime_minutes,omitempty"`

	// VoteAverage is the external vote average on a 0-10 scale
	VoteAverage float64 `json:"vote_average,omitempty"`

	// VoteCount is the number of external votes behind VoteAverage
	VoteCount int `json:"vote_count,omitempty"`
}

// GenreNames returns the movie's genre names in catalog order.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Collection is a franchise grouping of movies.
type Collection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemStats aggregates the local ratings of a single item.
type ItemStats struct {
	ItemID int64 `json:"item_id"`

	// AvgRating is the mean local rating on the 0-10 scale
	AvgRating float64 `json:"avg_rating"`

	// ReviewCount is the number of local ratings
	ReviewCount int `json:"review_count"`

	// RatingStdDev is the population standard deviation of local ratings
	RatingStdDev float64 `json:"rating_stddev"`
}
