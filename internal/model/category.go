package model

import (
	"fmt"
	"strings"
)

// Category is the product category a catalog item belongs to.
type Category string

const (
	// CategoryFoundation is a base complexion product.
	CategoryFoundation Category = "foundation"
	// CategoryConcealer is a spot-coverage complexion product.
	CategoryConcealer Category = "concealer"
	// CategoryPowder is a setting or finishing powder.
	CategoryPowder Category = "powder"
	// CategoryBlush adds color to the cheeks.
	CategoryBlush Category = "blush"
	// CategoryBronzer warms and contours.
	CategoryBronzer Category = "bronzer"
	// CategoryHighlighter adds luminosity.
	CategoryHighlighter Category = "highlighter"
	// CategoryLipstick covers lipsticks, glosses and liners.
	CategoryLipstick Category = "lipstick"
	// CategoryEyeshadow is an eye color product.
	CategoryEyeshadow Category = "eyeshadow"
	// CategoryEyeliner is an eye definition product.
	CategoryEyeliner Category = "eyeliner"
	// CategoryMascara is a lash product.
	CategoryMascara Category = "mascara"
	// CategoryOther is anything the catalog could not map.
	CategoryOther Category = "other"
)

var allCategories = []Category{
	CategoryFoundation,
	CategoryConcealer,
	CategoryPowder,
	CategoryBlush,
	CategoryBronzer,
	CategoryHighlighter,
	CategoryLipstick,
	CategoryEyeshadow,
	CategoryEyeliner,
	CategoryMascara,
	CategoryOther,
}

// recommendationCategories is the fixed key order of every RecommendationSet.
var recommendationCategories = []Category{
	CategoryFoundation,
	CategoryConcealer,
	CategoryPowder,
	CategoryBlush,
	CategoryLipstick,
	CategoryEyeshadow,
	CategoryEyeliner,
	CategoryMascara,
	CategoryBronzer,
	CategoryHighlighter,
}

// Categories returns every known product category.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// RecommendationCategories returns the ordered categories a recommendation set
// always carries, whether or not the catalog has products in them.
func RecommendationCategories() []Category {
	out := make([]Category, len(recommendationCategories))
	copy(out, recommendationCategories)
	return out
}

// ParseCategory validates a category name. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IsColorCritical reports whether products in this category must match the
// user's skin color. Only complexion products are checked.
func (c Category) IsColorCritical() bool {
	return c == CategoryFoundation || c == CategoryConcealer
}

func (c Category) String() string {
	return string(c)
}
