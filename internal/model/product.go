package model

import (
	"fmt"
	"strings"
)

// DefaultRating is used for scoring when a product has no rating.
const DefaultRating = 4.0

// ColorSwatch is one declared shade of a product.
type ColorSwatch struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Product is a read-only catalog record.
type Product struct {
	Rating      *float64      `json:"rating,omitempty"`
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Brand       string        `json:"brand"`
	Category    Category      `json:"category"`
	Currency    string        `json:"currency"`
	Image       string        `json:"image"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	Colors      []ColorSwatch `json:"colors"`
	Price       float64       `json:"price"`
}

// RatingOrDefault returns the product rating, or DefaultRating when absent.
func (p *Product) RatingOrDefault() float64 {
	if p.Rating == nil {
		return DefaultRating
	}
	return *p.Rating
}

// Validate ensures the product can be stored and scored.
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product ID is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if strings.TrimSpace(p.Brand) == "" {
		return fmt.Errorf("product brand is required")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("invalid category %q", p.Category)
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return fmt.Errorf("rating must be between 0 and 5, got %.2f", *p.Rating)
	}
	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative, got %.2f", p.Price)
	}
	return nil
}

// Float64 returns a pointer to v, for optional fields such as Product.Rating.
func Float64(v float64) *float64 {
	return &v
}

// CurrentProductRef is a product the user already owns.
type CurrentProductRef struct {
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Category Category `json:"category"`
}

// Validate ensures the reference is usable for novelty filtering.
func (r *CurrentProductRef) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if strings.TrimSpace(r.Brand) == "" {
		return fmt.Errorf("product brand is required")
	}
	if !r.Category.Valid() {
		return fmt.Errorf("invalid category %q", r.Category)
	}
	return nil
}
