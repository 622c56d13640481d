// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/ratings"
)

func rating(user, item int64, r float64) models.Rating {
	return models.Rating{UserID: user, ItemID: item, Rating: r}
}

// fixtureRatings: everyone loves 10, dislikes 20 and is lukewarm on 30.
// User 4 has only rated 10.
func fixtureRatings() []models.Rating {
	return []models.Rating{
		rating(1, 10, 10), rating(1, 20, 2), rating(1, 30, 6),
		rating(2, 10, 8), rating(2, 20, 4), rating(2, 30, 6),
		rating(3, 10, 9), rating(3, 20, 3), rating(3, 30, 5),
		rating(4, 10, 9),
	}
}

func movie(id int64, title string, year int, genre string) models.Movie {
	return models.Movie{
		ID:             id,
		Title:          title,
		Year:           year,
		Genres:         []models.NamedEntity{{ID: 1, Name: genre}},
		Language:       "en",
		RuntimeMinutes: 110,
	}
}

// fixtureMovies includes 40, which nobody has rated.
func fixtureMovies() []models.Movie {
	return []models.Movie{
		movie(10, "Heat", 1995, "Crime"),
		movie(20, "Gigli", 2003, "Comedy"),
		movie(30, "Ronin", 1998, "Crime"),
		movie(40, "Thief", 1981, "Crime"),
	}
}

func movieMap(list []models.Movie) map[int64]models.Movie {
	out := make(map[int64]models.Movie, len(list))
	for _, m := range list {
		out[m.ID] = m
	}
	return out
}

type fixture struct {
	store  *ratings.MemoryStore
	ex     *ratings.Extractor
	src    *catalog.MemorySource
	holder *ModelHolder
}

func newFixture() *fixture {
	store := ratings.NewMemoryStore(fixtureRatings())
	return &fixture{
		store:  store,
		ex:     ratings.NewExtractor(store, ratings.DefaultConfig()),
		src:    catalog.NewMemorySource(fixtureMovies(), nil),
		holder: NewModelHolder(),
	}
}
