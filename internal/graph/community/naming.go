// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package community

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/tomtom215/cinegraph/internal/models"
)

// IsolatedName is used for communities with no resolvable members.
const IsolatedName = "🔷 Isolated Cluster"

// CollectionNamer resolves franchise collection names.
type CollectionNamer interface {
	CollectionName(id int64) (string, bool)
}

// CollectionNames is a map-backed CollectionNamer.
type CollectionNames map[int64]string

// CollectionName implements CollectionNamer.
func (c CollectionNames) CollectionName(id int64) (string, bool) {
	name, ok := c[id]
	return name, ok && name != ""
}

// Keyword themes, checked in order against the top keywords.
var themes = []struct {
	name  string
	terms []string
}{
	{"Dark", []string{"murder", "death", "violence", "crime", "revenge", "serial killer", "dark", "corruption"}},
	{"Adventure", []string{"adventure", "quest", "journey", "exploration", "treasure", "expedition"}},
	{"Heartfelt", []string{"love", "romance", "family", "friendship", "loss", "grief", "coming of age"}},
	{"Cerebral", []string{"philosophy", "science", "technology", "conspiracy", "mystery", "puzzle"}},
	{"Action-Packed", []string{"fight", "war", "battle", "combat", "martial arts", "soldier", "military"}},
}

// counter counts labels and remembers first-seen order for ties.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) len() int { return len(c.order) }

// top returns up to n keys by descending count, ties in first-seen order.
func (c *counter) top(n int) []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// profile is everything naming needs to know about a community.
type profile struct {
	total       int
	types       *counter
	genres      *counter
	countries   *counter
	keywords    *counter
	directors   []string
	actors      []string
	titles      []string
	ratings     []float64
	years       []int
	collections map[int64]int
	collOrder   []int64

	era, decade, quality, theme, size string
	topKeywords                       []string
	hubTitle                          string
}

func buildProfile(members []*models.Node) *profile {
	p := &profile{
		total:       len(members),
		types:       newCounter(),
		genres:      newCounter(),
		countries:   newCounter(),
		keywords:    newCounter(),
		collections: make(map[int64]int),
	}

	for _, n := range members {
		p.types.add(string(n.Type))
		switch n.Type {
		case models.NodeGenre:
			p.genres.add(n.Label)
		case models.NodeCountry:
			p.countries.add(n.Label)
		case models.NodeDirector:
			if len(p.directors) < 3 {
				p.directors = append(p.directors, n.Label)
			}
		case models.NodeActor:
			if len(p.actors) < 3 {
				p.actors = append(p.actors, n.Label)
			}
		case models.NodeMovie:
			p.addMovie(n)
		}
	}
	p.describe()
	return p
}

func (p *profile) addMovie(n *models.Node) {
	if len(p.titles) < 3 {
		p.titles = append(p.titles, n.Label)
	}
	m := n.Movie()
	if m == nil {
		return
	}
	if m.CollectionID != nil {
		id := *m.CollectionID
		if _, ok := p.collections[id]; !ok {
			p.collOrder = append(p.collOrder, id)
		}
		p.collections[id]++
	}
	if m.Rating > 0 {
		p.ratings = append(p.ratings, m.Rating)
	}
	if m.Year > 0 {
		p.years = append(p.years, m.Year)
	}
	for i, kw := range m.Keywords {
		if i >= 10 {
			break
		}
		if kw = strings.TrimSpace(kw); kw != "" {
			p.keywords.add(kw)
		}
	}
}

func (p *profile) count(t models.NodeType) int {
	return p.types.counts[string(t)]
}

func (p *profile) describe() {
	people := p.count(models.NodeActor) + p.count(models.NodeDirector) + p.count(models.NodeCrew)
	movies := p.count(models.NodeMovie)
	if people > 10 && movies > 0 && movies <= 5 && len(p.titles) > 0 {
		p.hubTitle = p.titles[0]
	}

	if len(p.years) > 0 {
		sum, lo, hi := 0, p.years[0], p.years[0]
		for _, y := range p.years {
			sum += y
			lo = min(lo, y)
			hi = max(hi, y)
		}
		avg := float64(sum) / float64(len(p.years))
		decade := int(avg) / 10 * 10
		p.era = eraName(decade)
		switch span := hi - lo; {
		case span <= 5:
			p.decade = fmt.Sprintf("%ds", decade)
		case span <= 15:
			p.decade = p.era
		}
	}

	if len(p.ratings) > 0 {
		var sum float64
		for _, r := range p.ratings {
			sum += r
		}
		p.quality = qualityName(sum / float64(len(p.ratings)))
	}

	p.topKeywords = p.keywords.top(3)
	p.theme = themeName(p.topKeywords)

	switch {
	case p.total < 5:
		p.size = "Micro"
	case p.total < 15:
		p.size = "Small"
	case p.total < 40:
		p.size = "Medium"
	case p.total < 100:
		p.size = "Large"
	default:
		p.size = "Mega"
	}
}

func eraName(decade int) string {
	switch {
	case decade >= 2020:
		return "Modern"
	case decade >= 2010:
		return "Contemporary"
	case decade >= 2000:
		return "2000s"
	case decade >= 1990:
		return "90s"
	case decade >= 1980:
		return "80s"
	case decade >= 1970:
		return "70s"
	case decade >= 1960:
		return "Golden Age"
	default:
		return "Classic"
	}
}

func qualityName(avg float64) string {
	switch {
	case avg >= 8.0:
		return "Elite"
	case avg >= 7.5:
		return "Premium"
	case avg >= 7.0:
		return "Quality"
	case avg >= 6.5:
		return "Solid"
	case avg >= 5.5:
		return "Mixed"
	default:
		return "Cult"
	}
}

func themeName(keywords []string) string {
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		for _, th := range themes {
			for _, term := range th.terms {
				if strings.Contains(lower, term) {
					return th.name
				}
			}
		}
	}
	return ""
}

// Name generates a descriptive community name from its members. Collection
// dominance takes priority; otherwise the name depends on how homogeneous
// the member types are.
func Name(members []*models.Node, collections CollectionNamer) string {
	if len(members) == 0 {
		return IsolatedName
	}
	p := buildProfile(members)

	if name, ok := p.collectionName(collections); ok {
		return name
	}

	dominant := p.types.top(1)[0]
	share := float64(p.types.counts[dominant]) / float64(p.total) * 100
	switch {
	case share >= 80:
		return p.homogeneousName(models.NodeType(dominant))
	case share >= 50:
		return p.dominantName(models.NodeType(dominant))
	default:
		return p.mixedName()
	}
}

func (p *profile) collectionName(collections CollectionNamer) (string, bool) {
	if collections == nil || len(p.collOrder) == 0 {
		return "", false
	}
	bestID, bestCount := p.collOrder[0], p.collections[p.collOrder[0]]
	for _, id := range p.collOrder[1:] {
		if p.collections[id] > bestCount {
			bestID, bestCount = id, p.collections[id]
		}
	}
	movies := p.count(models.NodeMovie)
	var pct float64
	if movies > 0 {
		pct = float64(bestCount) / float64(movies)
	}
	if !((bestCount >= 2 && pct >= 0.5) || bestCount >= 3) {
		return "", false
	}
	name, ok := collections.CollectionName(bestID)
	if !ok {
		return "", false
	}

	parts := p.parts(p.quality, len(p.ratings) >= 3)
	parts = append(parts, name)
	label := strings.Join(parts, " ")
	switch {
	case pct >= 0.8:
		return "🎬 " + label + " Collection", true
	case float64(movies) < float64(p.total)*0.3:
		return "🎬 " + label + " Universe", true
	default:
		return "🎬 " + label + " Series", true
	}
}

// parts appends each descriptor whose condition holds and is non-empty.
// Arguments alternate descriptor, condition.
func (p *profile) parts(args ...any) []string {
	var out []string
	for i := 0; i+1 < len(args); i += 2 {
		s, _ := args[i].(string)
		ok, _ := args[i+1].(bool)
		if s != "" && ok {
			out = append(out, s)
		}
	}
	return out
}

func prefixOf(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

func (p *profile) homogeneousName(t models.NodeType) string {
	n := p.total
	switch t {
	case models.NodeGenre:
		if p.genres.len() > 0 {
			top := p.genres.top(1)[0]
			parts := p.parts(p.quality, len(p.ratings) >= 3, p.theme, true, p.decade, len(p.years) >= 3)
			if len(parts) > 0 {
				return fmt.Sprintf("🎬 %s %s (%d nodes)", strings.Join(parts, " "), top, n)
			}
			return fmt.Sprintf("🎬 %s Universe (%d nodes)", top, n)
		}
	case models.NodeCountry:
		if p.countries.len() > 0 {
			top := p.countries.top(1)[0]
			parts := p.parts(p.decade, len(p.years) >= 3, p.quality, len(p.ratings) >= 3)
			if len(parts) > 0 {
				return fmt.Sprintf("🌍 %s %s Cinema (%d nodes)", strings.Join(parts, " "), top, n)
			}
			return fmt.Sprintf("🌍 %s Cinema (%d nodes)", top, n)
		}
	case models.NodeDirector:
		if len(p.directors) > 0 {
			lead := p.directors[0]
			if p.quality != "" && len(p.ratings) >= 2 {
				return fmt.Sprintf("🎥 %s's %s Works (%d nodes)", lead, p.quality, n)
			}
			return fmt.Sprintf("🎥 %s's Circle (%d collaborators)", lead, n)
		}
		return fmt.Sprintf("🎥 %s Director Network (%d directors)", p.size, n)
	case models.NodeActor:
		return p.actorName()
	case models.NodeMovie:
		parts := p.parts(p.quality, len(p.ratings) >= 5, p.theme, len(p.topKeywords) > 0, p.decade, len(p.years) >= 5)
		if len(parts) > 0 {
			return fmt.Sprintf("🎞️ %s Collection (%d movies)", strings.Join(parts, " "), n)
		}
		return fmt.Sprintf("🎞️ %s Film Collection (%d movies)", p.size, n)
	case models.NodeUser:
		return fmt.Sprintf("👥 %s User Group (%d members)", p.size, n)
	}
	return fmt.Sprintf("🔹 %s Cluster (%d nodes)", titleCase(string(t)), n)
}

func (p *profile) actorName() string {
	n := p.total
	people := p.count(models.NodeActor) + p.count(models.NodeDirector) + p.count(models.NodeCrew)
	if p.hubTitle != "" && people > 10 && p.count(models.NodeMovie) <= 3 {
		return fmt.Sprintf("🎬 %s Production (%d nodes)", truncateTitle(p.hubTitle), n)
	}
	if p.genres.len() > 0 && len(p.titles) >= 2 {
		parts := p.parts(p.decade, true, p.quality, true)
		parts = append(parts, p.genres.top(1)[0])
		return fmt.Sprintf("🎬 %s Ensemble (%d nodes)", strings.Join(parts, " "), n)
	}
	if len(p.actors) > 0 {
		lead := p.actors[0]
		if p.decade != "" && len(p.years) >= 2 {
			return fmt.Sprintf("⭐ %s's %s Era (%d nodes)", lead, p.decade, n)
		}
		return fmt.Sprintf("⭐ %s's Circle (%d connections)", lead, n)
	}
	if len(p.titles) > 0 {
		if parts := p.parts(p.decade, true, p.theme, true); len(parts) > 0 {
			return fmt.Sprintf("🎬 %s Cast Network (%d nodes)", strings.Join(parts, " "), n)
		}
	}
	return fmt.Sprintf("⭐ %s Actor Ensemble (%d actors)", p.size, n)
}

func (p *profile) dominantName(t models.NodeType) string {
	n := p.total
	switch t {
	case models.NodeGenre:
		if p.genres.len() > 0 {
			prefix := prefixOf(p.parts(p.quality, len(p.ratings) >= 3, p.decade, len(p.years) >= 3))
			top := p.genres.top(2)
			if len(top) == 2 {
				return fmt.Sprintf("🎬 %s%s-%s Fusion (%d nodes)", prefix, top[0], top[1], n)
			}
			return fmt.Sprintf("🎬 %s%s-Centric Network (%d nodes)", prefix, top[0], n)
		}
	case models.NodeCountry:
		if p.countries.len() > 0 {
			prefix := prefixOf(p.parts(p.era, len(p.years) >= 3))
			top := p.countries.top(2)
			if len(top) == 2 {
				return fmt.Sprintf("🌍 %s%s-%s Films (%d nodes)", prefix, top[0], top[1], n)
			}
			return fmt.Sprintf("🌍 %s%s-Led Cinema (%d nodes)", prefix, top[0], n)
		}
	case models.NodeDirector:
		if p.theme != "" {
			return fmt.Sprintf("🎥 %s Director Collaborative (%d nodes)", p.theme, n)
		}
		return fmt.Sprintf("🎥 Director-Led Collaborative (%d nodes)", n)
	case models.NodeActor:
		people := p.count(models.NodeActor) + p.count(models.NodeDirector) + p.count(models.NodeCrew)
		switch {
		case p.hubTitle != "" && people > 8 && p.count(models.NodeMovie) <= 3:
			return fmt.Sprintf("🎬 %s Cast (%d nodes)", truncateTitle(p.hubTitle), n)
		case p.genres.len() > 0 && len(p.titles) >= 2:
			prefix := prefixOf(p.parts(p.decade, len(p.years) >= 3, p.quality, len(p.ratings) >= 2))
			return fmt.Sprintf("🎬 %s%s Cast (%d nodes)", prefix, p.genres.top(1)[0], n)
		case p.theme != "" && len(p.titles) >= 2:
			return fmt.Sprintf("🎬 %s%s Cast Network (%d nodes)", prefixOf(p.parts(p.decade, true)), p.theme, n)
		case p.decade != "" && len(p.years) >= 3:
			return fmt.Sprintf("⭐ %s Actor Network (%d nodes)", p.decade, n)
		case len(p.titles) >= 2:
			return fmt.Sprintf("🎬 Mixed Cast Network (%d nodes)", n)
		default:
			return fmt.Sprintf("⭐ Actor Network (%d nodes)", n)
		}
	case models.NodeMovie:
		if p.theme != "" && len(p.topKeywords) > 0 {
			return fmt.Sprintf("🎞️ %s Cinema: %s (%d nodes)", p.theme, titleCase(p.topKeywords[0]), n)
		}
		return fmt.Sprintf("🎞️ Movie-Heavy Cluster (%d nodes)", n)
	}
	return fmt.Sprintf("🔹 %s-Dominant Mix (%d nodes)", titleCase(string(t)), n)
}

func (p *profile) mixedName() string {
	n := p.total
	hasMovies := p.count(models.NodeMovie) > 0
	prefix := prefixOf(p.parts(
		p.quality, hasMovies && len(p.ratings) >= 3,
		p.era, hasMovies && len(p.years) >= 3,
		p.theme, len(p.topKeywords) > 0,
	))
	types := p.types.top(3)

	switch len(types) {
	case 3:
		if len(p.topKeywords) >= 2 {
			return fmt.Sprintf("🌟 %sDiverse: %s & %s (%d nodes)", prefix,
				titleCase(p.topKeywords[0]), titleCase(p.topKeywords[1]), n)
		}
		return fmt.Sprintf("🌟 %sDiverse Network: %ss, %ss & %ss (%d nodes)", prefix, types[0], types[1], types[2], n)
	case 2:
		if len(p.topKeywords) > 0 {
			return fmt.Sprintf("🌟 %sMixed: %ss & %ss - %s (%d nodes)", prefix, types[0], types[1], titleCase(p.topKeywords[0]), n)
		}
		return fmt.Sprintf("🌟 %sMixed Community: %ss & %ss (%d nodes)", prefix, types[0], types[1], n)
	default:
		return fmt.Sprintf("🌟 %sVaried Network (%d nodes)", prefix, n)
	}
}

// truncateTitle shortens titles over 30 characters to 27 plus an ellipsis.
func truncateTitle(title string) string {
	r := []rune(title)
	if len(r) > 30 {
		return string(r[:27]) + "..."
	}
	return title
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest, treating any non-letter as a word boundary.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
