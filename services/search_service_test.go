package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeyword(t *testing.T) {
	assert.Equal(t, "cafe", NormalizeKeyword("Café"))
	assert.Equal(t, "pho", NormalizeKeyword(" Phở "))
	assert.Equal(t, "sushi", NormalizeKeyword("sushi"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("loft", "loft"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abcd", "wxyz"))
	assert.Greater(t, Similarity("kitchen", "kitchens"), 0.8)
}

func TestSimilarityStaysInUnitRange(t *testing.T) {
	// Full-substitution pairs are the worst case for a weighted edit cost;
	// the score must still bottom out at zero.
	pairs := [][2]string{
		{"abcd", "wxyz"},
		{"a", "z"},
		{"short", "muchlongerstring"},
		{"", "anything"},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0, "Similarity(%q, %q)", p[0], p[1])
		assert.LessOrEqual(t, s, 1.0, "Similarity(%q, %q)", p[0], p[1])
	}
}

func TestClosestCuisine(t *testing.T) {
	known := []string{"Mexican", "Italian", "Vietnamese"}

	assert.Equal(t, "Mexican", ClosestCuisine("mexican", known))
	assert.Equal(t, "Italian", ClosestCuisine("italain", known))
	assert.Equal(t, "Vietnamese", ClosestCuisine("vietnamse", known))

	// Nothing known leaves the input alone.
	assert.Equal(t, "thai", ClosestCuisine("thai", nil))
	assert.Equal(t, "", ClosestCuisine("", known))
}

func TestRankByTitle(t *testing.T) {
	rows := []PublicStayRow{
		{ID: 1, Title: "Sunny beach house"},
		{ID: 2, Title: "Downtown loft"},
		{ID: 3, Title: "Beach bungalow"},
	}

	ranked := RankByTitle("beach", rows)
	require.Len(t, ranked, 2)
	ids := []uint{ranked[0].ID, ranked[1].ID}
	assert.Contains(t, ids, uint(1))
	assert.Contains(t, ids, uint(3))

	// Empty query keeps the original order and set.
	same := RankByTitle("  ", rows)
	require.Len(t, same, 3)
	assert.Equal(t, uint(1), same[0].ID)

	// Containment outranks a fuzzier match.
	ranked = RankByTitle("loft", rows)
	require.NotEmpty(t, ranked)
	assert.Equal(t, uint(2), ranked[0].ID)
}
