package model

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// ScoredProduct is a catalog product with its request-scoped ranking score.
// The embedded Product is a copy; scoring never touches the catalog record.
type ScoredProduct struct {
	Product
	Score float64 `json:"score"`
}

// Validate ensures the score is in range.
func (s *ScoredProduct) Validate() error {
	if s.Score < 0.0 || s.Score > 1.0 {
		return fmt.Errorf("score must be between 0.0 and 1.0, got %.2f", s.Score)
	}
	return nil
}

// ScoredProducts is a ranked list of products.
type ScoredProducts []ScoredProduct

// Sort orders by score descending. Equal scores keep their relative order so
// catalog order decides ties.
func (s ScoredProducts) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Score > s[j].Score
	})
}

// TopN sorts and returns the N highest-scoring products.
func (s ScoredProducts) TopN(n int) ScoredProducts {
	if n <= 0 {
		return ScoredProducts{}
	}

	s.Sort()

	if n > len(s) {
		n = len(s)
	}

	result := make(ScoredProducts, n)
	copy(result, s[:n])
	return result
}

// Top returns the highest-scoring product, or nil if empty.
func (s ScoredProducts) Top() *ScoredProduct {
	if len(s) == 0 {
		return nil
	}
	s.Sort()
	return &s[0]
}

// CategoryRecommendations maps each recommendation category to its ranked list.
// It always serializes the fixed category keys in fixed order, with empty
// arrays for categories that have nothing to offer.
type CategoryRecommendations map[Category]ScoredProducts

// NewCategoryRecommendations returns a map pre-filled with every key.
func NewCategoryRecommendations() CategoryRecommendations {
	recs := make(CategoryRecommendations, len(recommendationCategories))
	for _, cat := range recommendationCategories {
		recs[cat] = ScoredProducts{}
	}
	return recs
}

// MarshalJSON implements json.Marshaler.
func (c CategoryRecommendations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range recommendationCategories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(cat))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		items := c[cat]
		if items == nil {
			items = ScoredProducts{}
		}
		data, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s recommendations: %w", cat, err)
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecommendationSet is the assembled response for one recommendation request.
type RecommendationSet struct {
	GeneratedAt     time.Time               `json:"timestamp"`
	Highlight       *ScoredProduct          `json:"highlight"`
	Recommendations CategoryRecommendations `json:"recommendations"`
	SkinTone        SkinTone                `json:"skinTone"`
	Undertone       Undertone               `json:"undertone"`
	MatchingShades  []string                `json:"matchingShades"`
	Insights        []string                `json:"insights"`
}

// Total returns the number of recommended products across all categories.
func (r *RecommendationSet) Total() int {
	total := 0
	for _, items := range r.Recommendations {
		total += len(items)
	}
	return total
}
