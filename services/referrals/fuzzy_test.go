package referrals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		atLeast  float64
		lessThan float64
	}{
		{"identical", "john smith", "john smith", 1.0, 1.01},
		{"case insensitive", "John Smith", "john smith", 1.0, 1.01},
		{"trims whitespace", "  john smith ", "john smith", 1.0, 1.01},
		{"close typo", "jon smith", "John Smith", NameThreshold, 1.0},
		{"different names", "bob jones", "John Smith", 0, NameThreshold},
		{"empty vs empty", "", "", 1.0, 1.01},
		{"empty vs name", "", "john", 0, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.atLeast)
			assert.Less(t, got, tt.lessThan)
		})
	}
}

func TestNamesMatch_EmptyCandidate(t *testing.T) {
	assert.False(t, namesMatch("anything", ""))
}
