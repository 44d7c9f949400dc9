package referrals

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// NameThreshold is the minimum similarity for a fuzzy name hit.
const NameThreshold = 0.8

// Similarity returns a normalized ratio in [0, 1] between two strings,
// case-insensitive and whitespace-trimmed. 1 means identical.
//
// The ratio is 1 - editDistance/longerLength, which keeps "jon smith"
// vs "john smith" above the threshold while "bob jones" vs
// "john smith" falls well below it.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}

	longer := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longer {
		longer = n
	}
	if longer == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longer)
}

// namesMatch reports whether candidate is similar enough to query.
func namesMatch(query, candidate string) bool {
	if candidate == "" {
		return false
	}
	return Similarity(query, candidate) >= NameThreshold
}
