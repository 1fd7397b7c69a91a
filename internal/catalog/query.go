package catalog

import (
	"sort"
	"strings"

	"github.com/Veraticus/matchme/internal/model"
)

// Query narrows a product list. Zero-valued fields do not filter.
type Query struct {
	Category      model.Category
	Brand         string
	ExcludeBrands []string
	MinPrice      float64
	MaxPrice      float64
}

// Apply returns the products matching the query in their original order.
// Brand matching is a case-insensitive substring match.
func (q Query) Apply(products []model.Product) []model.Product {
	brand := strings.ToLower(strings.TrimSpace(q.Brand))
	excluded := make(map[string]struct{}, len(q.ExcludeBrands))
	for _, b := range q.ExcludeBrands {
		excluded[strings.ToLower(strings.TrimSpace(b))] = struct{}{}
	}

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if brand != "" && !strings.Contains(strings.ToLower(p.Brand), brand) {
			continue
		}
		if _, skip := excluded[strings.ToLower(p.Brand)]; skip {
			continue
		}
		if q.MinPrice > 0 && p.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TopRated returns up to limit rated products, best first. Unrated products
// are left out.
func TopRated(products []model.Product, limit int) []model.Product {
	rated := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Rating != nil && *p.Rating > 0 {
			rated = append(rated, p)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].Rating > *rated[j].Rating
	})
	if limit > 0 && len(rated) > limit {
		rated = rated[:limit]
	}
	return rated
}
