// Package relevance scores points of interest against theme descriptors.
// Scoring is pure and deterministic: the same POI and theme always produce the
// same score, which keeps itinerary generation reproducible.
package relevance

import (
	"math"
	"strings"

	"github.com/FACorreiaa/go-tourplan-recommender/internal/types"
)

// Score computes the relevance of a POI to a theme. When both the POI and the
// theme carry a precomputed embedding of the same dimension, the base score is
// their cosine similarity clamped to [0, 1]; otherwise it is keyword overlap
// normalized by descriptor length. Either way the descriptor boost is added
// when the POI text hits the theme's keywords.
func Score(poi types.POI, theme types.Theme, themeVector []float32) float64 {
	desc := DescriptorFor(theme)
	keywordScore := keywordOverlap(searchText(poi), desc.Keywords)

	base := keywordScore
	if len(poi.FeatureVector) > 0 && len(themeVector) == len(poi.FeatureVector) {
		base = math.Max(0, CosineSimilarity(poi.FeatureVector, themeVector))
	}

	if keywordScore > 0 {
		base += desc.Boost
	}
	return base
}

// MatchesTheme reports whether the POI's text hits the theme's keywords at all.
func MatchesTheme(poi types.POI, theme types.Theme) bool {
	return keywordOverlap(searchText(poi), DescriptorFor(theme).Keywords) > 0
}

func searchText(poi types.POI) string {
	return strings.ToLower(poi.Category.String() + " " + poi.Name + " " + poi.Description)
}

// keywordOverlap counts matched keywords normalized by descriptor length.
func keywordOverlap(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// CosineSimilarity returns the cosine of the angle between two vectors, or 0
// when dimensions differ or either vector has zero norm.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
