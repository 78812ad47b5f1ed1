package services

import (
	"sort"
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// NormalizeKeyword folds diacritics and case so user input matches stored
// values regardless of accents.
func NormalizeKeyword(input string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(input)))
}

// NewMatcher builds a closest-match index over a keyword list.
func NewMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

// ClosestCuisine maps a free-form cuisine filter to the nearest known
// cuisine type, or returns the input unchanged when nothing is known.
func ClosestCuisine(input string, known []string) string {
	if input == "" || len(known) == 0 {
		return input
	}
	normalized := make([]string, len(known))
	index := make(map[string]string, len(known))
	for i, k := range known {
		n := NormalizeKeyword(k)
		normalized[i] = n
		index[n] = k
	}
	best := NewMatcher(normalized).Closest(NormalizeKeyword(input))
	if original, ok := index[best]; ok {
		return original
	}
	return input
}

// unitCostOptions counts every edit as 1. The package default charges 2 per
// substitution, which would push the normalized score below zero.
var unitCostOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// Similarity scores two strings in [0, 1] by normalized levenshtein
// distance.
func Similarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), unitCostOptions)
	maxLen := float64(len(a))
	if float64(len(b)) > maxLen {
		maxLen = float64(len(b))
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/maxLen
}

const titleMatchThreshold = 0.3

// RankByTitle orders rows whose title resembles the query best first and
// drops rows below the similarity threshold. An empty query keeps rows
// unchanged.
func RankByTitle(query string, rows []PublicStayRow) []PublicStayRow {
	if strings.TrimSpace(query) == "" {
		return rows
	}
	q := NormalizeKeyword(query)

	type scored struct {
		row   PublicStayRow
		score float64
	}
	var kept []scored
	for _, row := range rows {
		title := NormalizeKeyword(row.Title)
		score := Similarity(q, title)
		// A containment hit beats edit distance on long titles.
		if strings.Contains(title, q) {
			score = 1.0
		}
		if score >= titleMatchThreshold {
			kept = append(kept, scored{row: row, score: score})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	out := make([]PublicStayRow, len(kept))
	for i, s := range kept {
		out[i] = s.row
	}
	return out
}
