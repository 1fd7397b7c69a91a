package recommend

import (
	"strings"

	"github.com/Veraticus/matchme/internal/model"
)

// DefaultPerCategory is the number of products kept per category.
const DefaultPerCategory = 5

// Ranker filters, scores and truncates catalog products per category.
type Ranker struct {
	Weights     ScoreWeights
	PerCategory int
}

// NewRanker returns a ranker with the default weights and list size.
func NewRanker() Ranker {
	return Ranker{Weights: DefaultScoreWeights, PerCategory: DefaultPerCategory}
}

// ownedNames is the case-insensitive set of product names a user owns.
type ownedNames map[string]struct{}

func newOwnedNames(current []model.CurrentProductRef) ownedNames {
	owned := make(ownedNames, len(current))
	for _, ref := range current {
		owned[strings.ToLower(ref.Name)] = struct{}{}
	}
	return owned
}

func (o ownedNames) contains(name string) bool {
	_, ok := o[strings.ToLower(name)]
	return ok
}

// RankCategory returns the top products of one category that suit the
// profile and are not already owned. Ties keep catalog order.
func (r Ranker) RankCategory(
	catalog []model.Product,
	category model.Category,
	tone model.SkinTone,
	undertone model.Undertone,
	current []model.CurrentProductRef,
) model.ScoredProducts {
	return r.rankCategory(catalog, category, tone, undertone, newOwnedNames(current))
}

func (r Ranker) rankCategory(
	catalog []model.Product,
	category model.Category,
	tone model.SkinTone,
	undertone model.Undertone,
	owned ownedNames,
) model.ScoredProducts {
	var scored model.ScoredProducts
	for i := range catalog {
		p := &catalog[i]
		if p.Category != category {
			continue
		}
		if !ProductCompatible(p, tone, undertone) {
			continue
		}
		if owned.contains(p.Name) {
			continue
		}
		scored = append(scored, model.ScoredProduct{
			Product: *p,
			Score:   r.Weights.Score(p),
		})
	}
	return scored.TopN(r.PerCategory)
}

// Rank builds the ranked lists for every recommendation category.
func (r Ranker) Rank(
	catalog []model.Product,
	tone model.SkinTone,
	undertone model.Undertone,
	current []model.CurrentProductRef,
) model.CategoryRecommendations {
	owned := newOwnedNames(current)
	recs := model.NewCategoryRecommendations()
	for _, category := range model.RecommendationCategories() {
		recs[category] = r.rankCategory(catalog, category, tone, undertone, owned)
	}
	return recs
}

// SelectHighlight returns the first product of the first category, in fixed
// order, that the user owns nothing in and that has recommendations.
func SelectHighlight(recs model.CategoryRecommendations, current []model.CurrentProductRef) *model.ScoredProduct {
	ownedCategories := make(map[string]struct{}, len(current))
	for _, ref := range current {
		ownedCategories[strings.ToLower(string(ref.Category))] = struct{}{}
	}

	for _, category := range model.RecommendationCategories() {
		if _, ok := ownedCategories[string(category)]; ok {
			continue
		}
		items := recs[category]
		if len(items) == 0 {
			continue
		}
		highlight := items[0]
		return &highlight
	}
	return nil
}
