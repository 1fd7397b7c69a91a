package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/matchme/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrEmptySlice      = errors.New("slice cannot be empty")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrInvalidOwned    = errors.New("invalid current product")
	ErrInvalidAnalysis = errors.New("invalid analysis")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateProducts validates a slice of products.
func validateProducts(products []model.Product) error {
	if products == nil {
		return fmt.Errorf("%w: products", ErrNilParameter)
	}
	if len(products) == 0 {
		return fmt.Errorf("%w: products", ErrEmptySlice)
	}

	for i := range products {
		if err := products[i].Validate(); err != nil {
			return fmt.Errorf("%w at index %d: %w", ErrInvalidProduct, i, err)
		}
	}
	return nil
}

// validateProfile validates a skin profile.
func validateProfile(profile *model.Profile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	if profile.AnalyzedAt.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidProfile)
	}
	return nil
}

// validateCurrentProduct validates an owned product reference.
func validateCurrentProduct(ref *model.CurrentProductRef) error {
	if ref == nil {
		return fmt.Errorf("%w: current product", ErrNilParameter)
	}
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOwned, err)
	}
	return nil
}

// validateAnalysis validates a stored classification run.
func validateAnalysis(record *model.AnalysisRecord) error {
	if record == nil {
		return fmt.Errorf("%w: analysis", ErrNilParameter)
	}
	if !record.Result.SkinTone.Valid() {
		return fmt.Errorf("%w: skin tone %q", ErrInvalidAnalysis, record.Result.SkinTone)
	}
	if !record.Result.Undertone.Valid() {
		return fmt.Errorf("%w: undertone %q", ErrInvalidAnalysis, record.Result.Undertone)
	}
	if record.Result.Confidence < 0 || record.Result.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidAnalysis)
	}
	return nil
}
