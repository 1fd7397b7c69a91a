package recommend

import (
	"math"
	"strings"

	"github.com/Veraticus/matchme/internal/model"
)

// ScoreWeights sets the contribution of each scoring component.
type ScoreWeights struct {
	Rating float64
	Price  float64
	Brand  float64
	Color  float64
}

// DefaultScoreWeights sum to 1.0, keeping every score in [0, 1].
var DefaultScoreWeights = ScoreWeights{
	Rating: 0.4,
	Price:  0.25,
	Brand:  0.15,
	Color:  0.2,
}

// PopularBrands earn the higher brand score. Matching is case-insensitive.
var PopularBrands = []string{"glossier", "nyx", "colourpop", "fenty", "rare beauty"}

// Scoring constants.
const (
	priceReference     = 50.0
	unknownPriceScore  = 0.5
	popularBrandScore  = 0.8
	regularBrandScore  = 0.5
	noSwatchColorScore = 0.5
	varietyPerSwatch   = 0.1
	maxVarietyBonus    = 0.3
)

// RatingScore maps the 0-5 rating onto [0, 1].
func RatingScore(p *model.Product) float64 {
	return p.RatingOrDefault() / 5.0
}

// PriceScore rewards products priced at or below the reference price.
func PriceScore(price float64) float64 {
	if price <= 0 {
		return unknownPriceScore
	}
	return math.Min(priceReference/price, 1.0)
}

// BrandScore is higher for popular brands.
func BrandScore(brand string) float64 {
	b := strings.ToLower(strings.TrimSpace(brand))
	for _, popular := range PopularBrands {
		if b == popular {
			return popularBrandScore
		}
	}
	return regularBrandScore
}

// swatchBalance scores one swatch by how balanced its channels are.
func swatchBalance(c RGB) float64 {
	diff := c.MaxChannelDiff()
	switch {
	case diff < 80:
		return 0.8
	case diff < 120:
		return 0.6
	default:
		return 0.4
	}
}

// ColorScore averages per-swatch balance over valid swatches and adds a
// bonus for shade variety, capped at 1.0. Products without usable swatches
// score 0.5.
func ColorScore(colors []model.ColorSwatch) float64 {
	var total float64
	valid := 0
	for _, swatch := range colors {
		c, err := ParseHex(swatch.Hex)
		if err != nil {
			continue
		}
		total += swatchBalance(c)
		valid++
	}
	if valid == 0 {
		return noSwatchColorScore
	}

	variety := math.Min(float64(valid)*varietyPerSwatch, maxVarietyBonus)
	return math.Min(total/float64(valid)+variety, 1.0)
}

// Score computes the weighted ranking score of a product.
func (w ScoreWeights) Score(p *model.Product) float64 {
	return RatingScore(p)*w.Rating +
		PriceScore(p.Price)*w.Price +
		BrandScore(p.Brand)*w.Brand +
		ColorScore(p.Colors)*w.Color
}
