package library

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match pairs a candidate with its fuzzy-match rank and the matched
// character positions, for highlighting in the finder.
type Match struct {
	Candidate Candidate
	Indexes   []int
	Score     int
}

// source adapts a candidate slice for fuzzy matching over the display
// names.
type source []Candidate

func (s source) String(i int) string { return s[i].Name }

func (s source) Len() int { return len(s) }

// Search ranks candidates against the query. An empty query returns
// every candidate in scan order so the finder always has something to
// show.
func Search(query string, candidates []Candidate) []Match {
	if strings.TrimSpace(query) == "" {
		all := make([]Match, len(candidates))
		for i, c := range candidates {
			all[i] = Match{Candidate: c}
		}
		return all
	}

	results := fuzzy.FindFrom(query, source(candidates))
	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{
			Candidate: candidates[r.Index],
			Indexes:   r.MatchedIndexes,
			Score:     r.Score,
		})
	}
	return matches
}
