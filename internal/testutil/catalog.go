package testutil

import (
	"fmt"

	"github.com/Veraticus/matchme/internal/model"
)

// CatalogBuilder provides a fluent interface for constructing test catalogs.
// Products get sequential IDs in the order they are added.
type CatalogBuilder struct {
	products []model.Product
}

// NewCatalogBuilder creates an empty catalog builder.
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{}
}

// WithProduct adds a product. Hex values become swatches named after their
// position.
func (b *CatalogBuilder) WithProduct(name, brand string, category model.Category, price float64, rating *float64, hexes ...string) *CatalogBuilder {
	colors := make([]model.ColorSwatch, 0, len(hexes))
	for i, hex := range hexes {
		colors = append(colors, model.ColorSwatch{Name: fmt.Sprintf("Shade %d", i+1), Hex: hex})
	}

	b.products = append(b.products, model.Product{
		ID:       fmt.Sprintf("prod-%03d", len(b.products)+1),
		Name:     name,
		Brand:    brand,
		Category: category,
		Price:    price,
		Currency: "CAD",
		Rating:   rating,
		Colors:   colors,
		Tags:     []string{},
	})
	return b
}

// WithStandardCatalog adds one or more products to every recommendation
// category. The complexion products suit a medium skin tone with warm
// undertones; one foundation suits nobody but very fair cool skin.
func (b *CatalogBuilder) WithStandardCatalog() *CatalogBuilder {
	return b.
		WithProduct("Fit Me Matte", "Maybelline", model.CategoryFoundation, 10.79, model.Float64(4.5), "#B48C6E").
		WithProduct("Porcelain Veil", "Clinique", model.CategoryFoundation, 48.00, model.Float64(4.8), "#E6EBFA").
		WithProduct("Radiant Creamy", "NARS", model.CategoryConcealer, 42.00, model.Float64(4.7), "#C8A082").
		WithProduct("Stay Matte", "Rimmel", model.CategoryPowder, 8.99, nil).
		WithProduct("Orgasm Blush", "NARS", model.CategoryBlush, 40.00, model.Float64(4.9), "#E89A8A").
		WithProduct("Velvet Matte", "NYX", model.CategoryLipstick, 9.45, model.Float64(4.1), "#B0413E", "#8E3A59").
		WithProduct("Naked Heat", "Urban Decay", model.CategoryEyeshadow, 65.00, model.Float64(4.6), "#A0522D").
		WithProduct("Epic Ink", "NYX", model.CategoryEyeliner, 12.50, model.Float64(4.3), "#000000").
		WithProduct("Lash Paradise", "L'Oreal", model.CategoryMascara, 17.50, model.Float64(4.4)).
		WithProduct("Bronzing Powder", "Physicians Formula", model.CategoryBronzer, 22.00, model.Float64(4.0), "#9B6B4B").
		WithProduct("Hypnotic Glow", "Fenty", model.CategoryHighlighter, 46.00, model.Float64(4.8), "#F0D2A0")
}

// Build returns a copy of the products added so far.
func (b *CatalogBuilder) Build() []model.Product {
	out := make([]model.Product, len(b.products))
	copy(out, b.products)
	return out
}
