package filter

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio is a 0..100 edit-distance similarity of two strings,
// compared case-insensitively with surrounding space trimmed.
func Ratio(a, b string) int {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return ratio(a, b)
}

func ratio(a, b string) int {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(100*(1-float64(dist)/float64(longest)) + 0.5)
}

// TokenSortRatio is Ratio over the words of each string sorted alphabetically,
// so word order does not matter.
func TokenSortRatio(a, b string) int {
	return ratio(sortedTokens(a), sortedTokens(b))
}

func sortedTokens(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// Score is the better of Ratio and TokenSortRatio.
func Score(a, b string) int {
	return max(Ratio(a, b), TokenSortRatio(a, b))
}

// BestMatchScore returns the highest Score of candidate against options,
// or 0 when there are none.
func BestMatchScore(candidate string, options []string) int {
	best := 0
	for _, o := range options {
		if s := Score(candidate, o); s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}
