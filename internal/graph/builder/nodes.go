// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package builder

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Node colours.
const (
	ColorUser       = "#4299E1"
	ColorMovie      = "#F56565"
	ColorGenre      = "#9F7AEA"
	ColorCountry    = "#48BB78"
	ColorDirector   = "#ED8936"
	ColorActor      = "#FFD700"
	ColorCrew       = "#00CED1"
	ColorPrediction = "#FFD700"
)

// Per-movie credit limits.
const (
	maxKeywords      = 10
	maxCastPerMovie  = 8
	maxCrewPerMovie  = 8
	predictionSize   = 18.0
	directorCrewRole = "Director"
)

// Edge weights by type.
const (
	weightGenre      = 1.0
	weightOrigin     = 1.0
	weightDirectedBy = 1.5
	weightActedIn    = 1.0
	weightCrew       = 0.3
)

// sizeRule is a clamped linear size: clamp(base + scale*count, lo, hi).
type sizeRule struct {
	base, scale, lo, hi float64
}

func (r sizeRule) size(count int) float64 {
	return clamp(r.base+r.scale*float64(count), r.lo, r.hi)
}

var (
	userSize     = sizeRule{base: 20, scale: 0.3, lo: 15, hi: 25}
	movieSize    = sizeRule{base: 15, scale: 1.5, lo: 10, hi: 30}
	genreSize    = sizeRule{base: 20, scale: 1, lo: 16, hi: 28}
	countrySize  = sizeRule{base: 18, scale: 1.2, lo: 15, hi: 30}
	directorSize = sizeRule{base: 13, scale: 0.5, lo: 12, hi: 18}
	actorSize    = sizeRule{base: 9, scale: 0.3, lo: 8, hi: 12}
	crewSize     = sizeRule{base: 9, scale: 0.4, lo: 8, hi: 14}
)

// Node ID helpers. IDs are prefixed by type so they never collide.
func userID(id int64) string       { return fmt.Sprintf("user_%d", id) }
func movieID(id int64) string      { return fmt.Sprintf("movie_%d", id) }
func predictionID(id int64) string { return fmt.Sprintf("prediction_%d", id) }
func genreID(id int64) string      { return fmt.Sprintf("genre_%d", id) }
func countryID(id int64) string    { return fmt.Sprintf("country_%d", id) }
func directorID(id int64) string   { return fmt.Sprintf("director_%d", id) }
func actorID(id int64) string      { return fmt.Sprintf("actor_%d", id) }
func crewID(id int64) string       { return fmt.Sprintf("crew_%d", id) }

// tally counts entities across movies, remembering the first name seen.
type tally struct {
	names  map[int64]string
	counts map[int64]int
}

func newTally() *tally {
	return &tally{names: make(map[int64]string), counts: make(map[int64]int)}
}

func (t *tally) add(e models.NamedEntity) {
	if _, ok := t.names[e.ID]; !ok {
		t.names[e.ID] = e.Name
	}
	t.counts[e.ID]++
}

// ids returns the counted IDs in ascending order.
func (t *tally) ids() []int64 {
	out := make([]int64, 0, len(t.counts))
	for id := range t.counts {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// top returns the n most frequent IDs in ascending ID order. Ties on count
// keep the lower ID.
func (t *tally) top(n int) []int64 {
	ids := t.ids()
	if len(ids) <= n {
		return ids
	}
	slices.SortStableFunc(ids, func(a, b int64) int {
		return cmp.Compare(t.counts[b], t.counts[a])
	})
	ids = ids[:n]
	slices.Sort(ids)
	return ids
}

// unique drops repeated entity IDs, keeping the first occurrence.
func unique(list []models.NamedEntity) []models.NamedEntity {
	seen := make(map[int64]bool, len(list))
	out := make([]models.NamedEntity, 0, len(list))
	for _, e := range list {
		if !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e)
		}
	}
	return out
}

// castOf returns the billed cast, one entry per person, lead first.
func castOf(m *models.Movie) []models.NamedEntity {
	credits := slices.Clone(m.Cast)
	slices.SortStableFunc(credits, func(a, b models.CastCredit) int {
		return cmp.Compare(a.Order, b.Order)
	})
	people := make([]models.NamedEntity, 0, len(credits))
	for _, c := range credits {
		people = append(people, c.Person)
	}
	people = unique(people)
	if len(people) > maxCastPerMovie {
		people = people[:maxCastPerMovie]
	}
	return people
}

// crewOf returns non-director crew, one credit per person.
func crewOf(m *models.Movie) []models.CrewCredit {
	seen := make(map[int64]bool)
	var out []models.CrewCredit
	for _, c := range m.Crew {
		if strings.EqualFold(c.Role, directorCrewRole) || seen[c.Person.ID] {
			continue
		}
		seen[c.Person.ID] = true
		out = append(out, c)
		if len(out) == maxCrewPerMovie {
			break
		}
	}
	return out
}

// addNodes emits user, movie and attribute nodes.
func (b *Builder) addNodes(_ context.Context, s *state) error {
	for _, u := range s.users {
		reviews := s.counts[u]
		s.addNode(models.NewNode(userID(u), fmt.Sprintf("User %d", u), userSize.size(reviews), ColorUser,
			&models.UserData{UserID: u, ReviewCount: reviews}))
	}

	for i := range s.movies {
		m := &s.movies[i]
		st := s.stats[m.ID]
		s.addNode(models.NewNode(movieID(m.ID), m.Title, movieSize.size(st.ReviewCount), ColorMovie, &models.MovieData{
			MovieID:      m.ID,
			ReviewCount:  st.ReviewCount,
			Rating:       round1(st.AvgRating),
			Year:         m.Year,
			Keywords:     keywordNames(m),
			CollectionID: m.CollectionID,
		}))
	}

	genres, countries, directors := newTally(), newTally(), newTally()
	actors, crew := newTally(), newTally()
	roles := make(map[int64]string)
	for i := range s.movies {
		m := &s.movies[i]
		for _, g := range unique(m.Genres) {
			genres.add(g)
		}
		for _, c := range unique(m.Countries) {
			countries.add(c)
		}
		for _, d := range unique(m.Directors) {
			directors.add(d)
		}
		if s.req.ShowActors {
			s.cast[m.ID] = castOf(m)
			for _, p := range s.cast[m.ID] {
				actors.add(p)
			}
		}
		if s.req.ShowCrew {
			s.crew[m.ID] = crewOf(m)
			for _, c := range s.crew[m.ID] {
				crew.add(c.Person)
				if _, ok := roles[c.Person.ID]; !ok {
					roles[c.Person.ID] = c.Role
				}
			}
		}
	}

	if s.req.ShowGenres {
		for _, id := range genres.ids() {
			n := genres.counts[id]
			s.addNode(models.NewNode(genreID(id), genres.names[id], genreSize.size(n), ColorGenre,
				&models.GenreData{GenreID: id, MovieCount: n}))
		}
	}
	if s.req.ShowCountries {
		for _, id := range countries.ids() {
			n := countries.counts[id]
			s.addNode(models.NewNode(countryID(id), countries.names[id], countrySize.size(n), ColorCountry,
				&models.CountryData{CountryID: id, MovieCount: n}))
		}
	}
	if s.req.ShowDirectors {
		for _, id := range directors.ids() {
			n := directors.counts[id]
			s.addNode(models.NewNode(directorID(id), directors.names[id], directorSize.size(n), ColorDirector,
				&models.DirectorData{PersonID: id, MovieCount: n}))
		}
	}
	if s.req.ShowActors {
		for _, id := range actors.top(max(1, s.req.MaxNodes/2)) {
			n := actors.counts[id]
			s.addNode(models.NewNode(actorID(id), actors.names[id], actorSize.size(n), ColorActor,
				&models.ActorData{PersonID: id, MovieCount: n}))
		}
	}
	if s.req.ShowCrew {
		for _, id := range crew.top(max(1, s.req.MaxNodes/3)) {
			n := crew.counts[id]
			s.addNode(models.NewNode(crewID(id), crew.names[id], crewSize.size(n), ColorCrew,
				&models.CrewData{PersonID: id, MovieCount: n, Role: roles[id]}))
		}
	}
	return nil
}

// addEdges emits review and attribute edges, then affinity edges.
func (b *Builder) addEdges(_ context.Context, s *state) error {
	for _, r := range s.good {
		s.addEdge(models.Edge{
			Source: userID(r.user),
			Target: movieID(r.item),
			Type:   models.EdgeReview,
			Weight: r.rating / 10,
		})
	}

	for i := range s.movies {
		m := &s.movies[i]
		src := movieID(m.ID)
		for _, g := range unique(m.Genres) {
			s.addEdge(models.Edge{Source: src, Target: genreID(g.ID), Type: models.EdgeGenre, Weight: weightGenre, Color: ColorGenre})
		}
		for _, c := range unique(m.Countries) {
			s.addEdge(models.Edge{Source: src, Target: countryID(c.ID), Type: models.EdgeOrigin, Weight: weightOrigin})
		}
		for _, d := range unique(m.Directors) {
			s.addEdge(models.Edge{Source: src, Target: directorID(d.ID), Type: models.EdgeDirectedBy, Weight: weightDirectedBy})
		}
		for _, p := range s.cast[m.ID] {
			s.addEdge(models.Edge{Source: src, Target: actorID(p.ID), Type: models.EdgeActedIn, Weight: weightActedIn})
		}
		for _, c := range s.crew[m.ID] {
			s.addEdge(models.Edge{Source: src, Target: crewID(c.Person.ID), Type: models.EdgeCrew, Weight: weightCrew})
		}
	}

	b.addAffinities(s)
	return nil
}

func keywordNames(m *models.Movie) []string {
	if len(m.Keywords) == 0 {
		return nil
	}
	n := min(len(m.Keywords), maxKeywords)
	out := make([]string, 0, n)
	for _, k := range m.Keywords[:n] {
		out = append(out, k.Name)
	}
	return out
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
