package catalog

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match scores for the name-search tiers. Exact and prefix/substring
// matches always outrank fuzzy subsequence hits, which are scaled into
// (0, ScoreFuzzyMax].
const (
	ScoreExact     = 100
	ScorePrefix    = 90
	ScoreSubstring = 70
	ScoreFuzzyMax  = 60
)

// Match pairs a place with its search score.
type Match struct {
	Place Place
	Score int
}

// placeSource adapts the catalog for fuzzy matching.
type placeSource struct {
	places []Place
}

func (s placeSource) String(i int) string {
	return strings.ToLower(s.places[i].Name)
}

func (s placeSource) Len() int {
	return len(s.places)
}

// Search matches text against place display names, case-insensitively.
// Results are ordered by descending score; ties keep catalog insertion
// order. Empty or whitespace-only text yields no matches.
func (c *Catalog) Search(text string) []Match {
	query := normalize(text)
	if query == "" {
		return nil
	}

	matches := make([]Match, 0, 4)
	matched := make(map[int]bool, 4)

	for i, p := range c.places {
		name := normalize(p.Name)
		var score int
		switch {
		case name == query:
			score = ScoreExact
		case strings.HasPrefix(name, query):
			score = ScorePrefix
		case strings.Contains(name, query):
			score = ScoreSubstring
		default:
			continue
		}
		matches = append(matches, Match{Place: p, Score: score})
		matched[i] = true
	}

	// Fuzzy subsequence pass for places the tiers did not catch.
	for _, fm := range fuzzy.FindFrom(query, placeSource{places: c.places}) {
		if matched[fm.Index] {
			continue
		}
		matches = append(matches, Match{
			Place: c.places[fm.Index],
			Score: scaleFuzzyScore(fm.Score),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// scaleFuzzyScore maps sahilm/fuzzy scores into (0, ScoreFuzzyMax] so
// they stay below the substring tier but keep their relative order.
func scaleFuzzyScore(s int) int {
	s = ScoreFuzzyMax/2 + s
	if s < 1 {
		return 1
	}
	if s > ScoreFuzzyMax {
		return ScoreFuzzyMax
	}
	return s
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
