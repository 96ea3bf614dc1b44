package similarity

import (
	"math"
	"strings"
	"time"
)

// dateDecayDays is the window over which missing-date proximity decays
// to zero. Two disappearances a month or more apart score 0.
const dateDecayDays = 30.0

// Levenshtein returns the edit distance between a and b over runes,
// counting insertions, deletions and substitutions with unit cost.
// Memory use is two rows of the shorter string.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// TextSimilarity returns the case-insensitive similarity of two strings
// in [0, 1]: the Levenshtein distance normalized by the longer rune
// length. Two empty strings are identical (1); an empty string shares
// nothing with a non-empty one (0).
func TextSimilarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := max(la, lb)
	if maxLen == 0 {
		return 1.0
	}

	dist := Levenshtein(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// DateProximity returns the closeness of two instants in [0, 1],
// decaying linearly from 1 at zero distance to 0 at dateDecayDays.
func DateProximity(a, b time.Time) float64 {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	days := diff.Hours() / 24
	return max(0, 1-days/dateDecayDays)
}

// ExactMatch compares two categorical values as stored, case-sensitive.
func ExactMatch(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

// NumberProximity returns the closeness of two numbers in [0, 1],
// decaying linearly to 0 once they differ by span or more.
func NumberProximity(a, b, span float64) float64 {
	return max(0, 1-math.Abs(a-b)/span)
}
