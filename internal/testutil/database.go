// Package testutil provides test utilities for matchme. It sets up isolated
// databases and builds catalog fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/matchme/internal/model"
	"github.com/Veraticus/matchme/internal/service"
	"github.com/Veraticus/matchme/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage  service.Storage
	t        *testing.T
	Products []model.Product
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup     func(context.Context, service.Storage) error
	Profile         *model.Profile
	Products        []model.Product
	CurrentProducts []model.CurrentProductRef
	SkipMigrations  bool
}

// SetupTestDB creates a new in-memory test database seeded with products.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.NewCatalogBuilder().
//		WithStandardCatalog().
//		Build())
func SetupTestDB(t *testing.T, products []model.Product) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Products: products})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if len(opts.Products) > 0 {
		if err := store.SaveProducts(ctx, opts.Products); err != nil {
			t.Fatalf("failed to seed products: %v", err)
		}
	}

	for i := range opts.CurrentProducts {
		if err := store.AddCurrentProduct(ctx, &opts.CurrentProducts[i]); err != nil {
			t.Fatalf("failed to seed current product %q: %v", opts.CurrentProducts[i].Name, err)
		}
	}

	if opts.Profile != nil {
		if err := store.SaveProfile(ctx, opts.Profile); err != nil {
			t.Fatalf("failed to seed profile: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage:  store,
		Products: opts.Products,
		t:        t,
	}
}

// MustGetProduct returns the seeded product with the given ID or fails the test.
func (db *TestDB) MustGetProduct(id string) model.Product {
	db.t.Helper()
	for _, p := range db.Products {
		if p.ID == id {
			return p
		}
	}
	db.t.Fatalf("product %q not seeded", id)
	return model.Product{}
}
