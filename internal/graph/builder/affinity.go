// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package builder

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Affinity caps.
const (
	MaxGenreAffinities         = 3
	MaxCountryAffinities       = 2
	MinGenreAffinityStrength   = 0.2
	MinCountryAffinityStrength = 0.25
)

// affinityRule describes one family of affinity edges. The preset length
// shrinks as the affinity strengthens: base - slope*strength.
type affinityRule struct {
	edge        models.EdgeType
	limit       int
	minStrength float64
	base, slope float64

	categories func(*models.Movie) []models.NamedEntity
	nodeID     func(int64) string
}

func movieGenres(m *models.Movie) []models.NamedEntity    { return m.Genres }
func movieCountries(m *models.Movie) []models.NamedEntity { return m.Countries }

func genreRule(edge models.EdgeType, base, slope float64) affinityRule {
	return affinityRule{
		edge: edge, limit: MaxGenreAffinities, minStrength: MinGenreAffinityStrength,
		base: base, slope: slope, categories: movieGenres, nodeID: genreID,
	}
}

func countryRule(edge models.EdgeType, base, slope float64) affinityRule {
	return affinityRule{
		edge: edge, limit: MaxCountryAffinities, minStrength: MinCountryAffinityStrength,
		base: base, slope: slope, categories: movieCountries, nodeID: countryID,
	}
}

var (
	actorGenre      = genreRule(models.EdgeActorGenreAffinity, 270, 140)
	directorGenre   = genreRule(models.EdgeDirectorGenreAffinity, 270, 140)
	userGenre       = genreRule(models.EdgeUserGenreAffinity, 250, 120)
	actorCountry    = countryRule(models.EdgeActorCountryAffinity, 280, 150)
	directorCountry = countryRule(models.EdgeDirCountryAffinity, 280, 150)
	userCountry     = countryRule(models.EdgeUserCountryAffinity, 260, 130)
)

// affinity is the share of a source's movies in one category.
type affinity struct {
	category int64
	strength float64
}

// affinities returns the qualifying categories of movies, strongest first.
func (r affinityRule) affinities(movies []*models.Movie, exists func(string) bool) []affinity {
	if len(movies) == 0 {
		return nil
	}
	counts := make(map[int64]int)
	for _, m := range movies {
		for _, c := range unique(r.categories(m)) {
			counts[c.ID]++
		}
	}

	var out []affinity
	total := float64(len(movies))
	for id, n := range counts {
		strength := float64(n) / total
		if strength >= r.minStrength && exists(r.nodeID(id)) {
			out = append(out, affinity{category: id, strength: strength})
		}
	}
	slices.SortFunc(out, func(a, b affinity) int {
		if c := cmp.Compare(b.strength, a.strength); c != 0 {
			return c
		}
		return cmp.Compare(a.category, b.category)
	})
	if len(out) > r.limit {
		out = out[:r.limit]
	}
	return out
}

func (r affinityRule) edges(source string, movies []*models.Movie, exists func(string) bool) []models.Edge {
	found := r.affinities(movies, exists)
	out := make([]models.Edge, 0, len(found))
	for _, a := range found {
		out = append(out, models.Edge{
			Source: source,
			Target: r.nodeID(a.category),
			Type:   r.edge,
			Weight: a.strength,
			Length: r.base - r.slope*a.strength,
			Dashes: true,
			Label:  fmt.Sprintf("%d%%", int(math.Round(a.strength*100))),
		})
	}
	return out
}

// addAffinities links directors, actors and users to the genres and
// countries that dominate their movies in the graph.
func (b *Builder) addAffinities(s *state) {
	directed := make(map[int64][]*models.Movie)
	acted := make(map[int64][]*models.Movie)
	for i := range s.movies {
		m := &s.movies[i]
		for _, d := range unique(m.Directors) {
			directed[d.ID] = append(directed[d.ID], m)
		}
		for _, p := range s.cast[m.ID] {
			acted[p.ID] = append(acted[p.ID], m)
		}
	}

	liked := make(map[int64][]*models.Movie)
	for _, r := range s.good {
		if m, ok := s.movieByID[r.item]; ok {
			liked[r.user] = append(liked[r.user], m)
		}
	}

	type source struct {
		id     string
		movies []*models.Movie
		rules  []affinityRule
	}
	var sources []source
	for _, id := range sortedKeys(directed) {
		if node := directorID(id); s.has(node) {
			sources = append(sources, source{node, directed[id], []affinityRule{directorGenre, directorCountry}})
		}
	}
	for _, id := range sortedKeys(acted) {
		if node := actorID(id); s.has(node) {
			sources = append(sources, source{node, acted[id], []affinityRule{actorGenre, actorCountry}})
		}
	}
	for _, u := range s.users {
		sources = append(sources, source{userID(u), liked[u], []affinityRule{userGenre, userCountry}})
	}

	added := 0
	for _, src := range sources {
		for _, rule := range src.rules {
			for _, e := range rule.edges(src.id, src.movies, s.has) {
				s.addEdge(e)
				added++
			}
		}
	}
	b.logger.Debug().Int("edges", added).Msg("affinity edges added")
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
