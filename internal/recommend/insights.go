package recommend

import (
	"fmt"

	"github.com/Veraticus/matchme/internal/model"
)

// Insight messages.
const (
	insightStartCollection = "Start building your collection! We recommend beginning with foundation and concealer."
	insightStartTipFormat  = "Based on your %s skin tone with %s undertone, you'll look great in warm, golden tones."
	insightAddFoundation   = "Consider adding a foundation to complete your base makeup routine."
	insightAddConcealer    = "A concealer can help perfect your base and cover any imperfections."
	insightBrandLoyalFmt   = "You seem to love %s! We've included some new brands to help you explore."
	insightAddColor        = "Try adding some color products like blush or lipstick to enhance your look."
	insightDefault         = "Your unique skin tone and undertone combination allows for versatile makeup looks!"

	// minDistinctCategories below which the color-products message appears.
	minDistinctCategories = 3
)

type profileKey struct {
	tone      model.SkinTone
	undertone model.Undertone
}

var personalizedInsights = map[profileKey]string{
	{model.SkinToneVeryFair, model.UndertoneWarm}:    "Your fair skin with warm undertones looks stunning with peachy blushes and coral lipsticks.",
	{model.SkinToneVeryFair, model.UndertoneCool}:    "Your fair skin with cool undertones is perfect for pink blushes and berry lipsticks.",
	{model.SkinToneVeryFair, model.UndertoneNeutral}: "Your fair skin with neutral undertones can pull off both warm and cool tones beautifully.",
	{model.SkinToneFair, model.UndertoneWarm}:        "Your fair skin with warm undertones glows with golden highlighters and warm bronzers.",
	{model.SkinToneFair, model.UndertoneCool}:        "Your fair skin with cool undertones shines with silver highlighters and cool bronzers.",
	{model.SkinToneFair, model.UndertoneNeutral}:     "Your fair skin with neutral undertones can experiment with both warm and cool tones.",
	{model.SkinToneLight, model.UndertoneWarm}:       "Your light skin with warm undertones looks amazing with bronze eyeshadows and warm lipsticks.",
	{model.SkinToneLight, model.UndertoneCool}:       "Your light skin with cool undertones is perfect for taupe eyeshadows and cool lipsticks.",
	{model.SkinToneLight, model.UndertoneNeutral}:    "Your light skin with neutral undertones can wear a wide range of colors.",
	{model.SkinToneMedium, model.UndertoneWarm}:      "Your medium skin with warm undertones looks gorgeous with copper eyeshadows and warm nudes.",
	{model.SkinToneMedium, model.UndertoneCool}:      "Your medium skin with cool undertones is stunning with plum eyeshadows and cool nudes.",
	{model.SkinToneMedium, model.UndertoneNeutral}:   "Your medium skin with neutral undertones can experiment with bold colors.",
	{model.SkinToneDark, model.UndertoneWarm}:        "Your dark skin with warm undertones looks incredible with gold eyeshadows and warm reds.",
	{model.SkinToneDark, model.UndertoneCool}:        "Your dark skin with cool undertones is perfect for silver eyeshadows and cool reds.",
	{model.SkinToneDark, model.UndertoneNeutral}:     "Your dark skin with neutral undertones can pull off any color beautifully.",
	{model.SkinToneVeryDark, model.UndertoneWarm}:    "Your deep skin with warm undertones looks stunning with bronze eyeshadows and warm berries.",
	{model.SkinToneVeryDark, model.UndertoneCool}:    "Your deep skin with cool undertones is perfect for silver eyeshadows and cool berries.",
	{model.SkinToneVeryDark, model.UndertoneNeutral}: "Your deep skin with neutral undertones can wear any color with confidence.",
}

// PersonalizedInsight returns the styling message for a tone and undertone.
func PersonalizedInsight(tone model.SkinTone, undertone model.Undertone) string {
	if msg, ok := personalizedInsights[profileKey{tone, undertone}]; ok {
		return msg
	}
	return insightDefault
}

// GenerateInsights builds the ordered insight messages for a user. A user
// with no products gets only the two getting-started messages.
func GenerateInsights(tone model.SkinTone, undertone model.Undertone, current []model.CurrentProductRef) []string {
	if len(current) == 0 {
		return []string{
			insightStartCollection,
			fmt.Sprintf(insightStartTipFormat, tone, undertone),
		}
	}

	var insights []string

	categories := make(map[model.Category]struct{})
	brandCounts := make(map[string]int)
	var brandOrder []string
	for _, ref := range current {
		categories[ref.Category] = struct{}{}
		if _, seen := brandCounts[ref.Brand]; !seen {
			brandOrder = append(brandOrder, ref.Brand)
		}
		brandCounts[ref.Brand]++
	}

	if _, ok := categories[model.CategoryFoundation]; !ok {
		insights = append(insights, insightAddFoundation)
	}
	if _, ok := categories[model.CategoryConcealer]; !ok {
		insights = append(insights, insightAddConcealer)
	}

	insights = append(insights, fmt.Sprintf(insightBrandLoyalFmt, topBrand(brandOrder, brandCounts)))

	if len(categories) < minDistinctCategories {
		insights = append(insights, insightAddColor)
	}

	return append(insights, PersonalizedInsight(tone, undertone))
}

// topBrand returns the most owned brand; ties go to the first encountered.
func topBrand(order []string, counts map[string]int) string {
	var best string
	bestCount := 0
	for _, brand := range order {
		if counts[brand] > bestCount {
			best = brand
			bestCount = counts[brand]
		}
	}
	return best
}
