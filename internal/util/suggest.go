package util

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance is the largest edit distance still offered as a suggestion.
const maxSuggestDistance = 2

// LevenshteinDistance returns the edit distance between a and b.
func LevenshteinDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// SuggestSimilar returns up to limit candidates close to input, nearest
// first. Comparison ignores case. It returns nil when nothing is close.
func SuggestSimilar(input string, candidates []string, limit int) []string {
	if input == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}

	type match struct {
		name string
		dist int
	}
	lower := strings.ToLower(input)
	var matches []match
	for _, c := range candidates {
		d := LevenshteinDistance(lower, strings.ToLower(c))
		if d <= maxSuggestDistance {
			matches = append(matches, match{c, d})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
