// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/matchme/internal/model"
)

// CatalogStore persists the product catalog.
type CatalogStore interface {
	SaveProducts(ctx context.Context, products []model.Product) error
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProductsByCategory(ctx context.Context, category model.Category) ([]model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	CountProducts(ctx context.Context) (int, error)
	CountProductsByCategory(ctx context.Context) (map[model.Category]int, error)
	ClearProducts(ctx context.Context) (int, error)
}

// ProfileStore persists the user's skin profile and owned products.
type ProfileStore interface {
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context) (*model.Profile, error)
	AddCurrentProduct(ctx context.Context, ref *model.CurrentProductRef) error
	RemoveCurrentProduct(ctx context.Context, name string) error
	GetCurrentProducts(ctx context.Context) ([]model.CurrentProductRef, error)
}

// AnalysisStore keeps the history of classification runs.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, record *model.AnalysisRecord) error
	GetAnalysisHistory(ctx context.Context, limit int) ([]model.AnalysisRecord, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CatalogStore
	ProfileStore
	AnalysisStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// SkinAnalyzer classifies the skin in an encoded photo.
type SkinAnalyzer interface {
	Analyze(ctx context.Context, data []byte) (model.ClassificationResult, error)
	AnalyzeOrDefault(ctx context.Context, data []byte) (model.ClassificationResult, error)
}
