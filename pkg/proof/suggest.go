package proof

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// suggestLimit caps how many candidates a suggestion list returns.
const suggestLimit = 3

// suggestThreshold filters out candidates that are not meaningfully
// similar to the query.
const suggestThreshold = 0.3

// Suggest ranks candidates by similarity to query and returns the best
// matches. It backs the "did you mean" hints on unknown references and
// the symbol search endpoint.
func Suggest(query string, candidates []string) []string {
	if query == "" || len(candidates) == 0 {
		return nil
	}

	queryLower := strings.ToLower(query)

	type match struct {
		label string
		score float64
	}
	var matches []match
	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		score := similarity(queryLower, strings.ToLower(cand))
		if score > suggestThreshold {
			matches = append(matches, match{label: cand, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	limit := suggestLimit
	if len(matches) < limit {
		limit = len(matches)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].label
	}
	return out
}

// similarity returns a score between 0 and 1: exact and substring matches
// score highest, otherwise normalized Levenshtein distance.
func similarity(queryLower, candLower string) float64 {
	if queryLower == candLower {
		return 1.0
	}
	if strings.Contains(candLower, queryLower) || strings.Contains(queryLower, candLower) {
		return 0.95
	}

	dist := levenshtein.Distance(queryLower, candLower, nil)
	maxLen := float64(len(queryLower))
	if len(candLower) > int(maxLen) {
		maxLen = float64(len(candLower))
	}
	score := 1.0 - float64(dist)/maxLen
	if score < 0 {
		return 0
	}
	return score
}
