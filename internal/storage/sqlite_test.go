package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/service"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ service.Storage = (*SQLiteStorage)(nil)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "a", "b", "matchme.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		assert.Equal(t, dbPath, store.Path())
	})

	t.Run("in memory", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Migrate(context.Background()))
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestMigrate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	for _, table := range []string{"products", "product_colors", "product_tags", "profile", "current_products", "analysis_history"} {
		var count int
		err := store.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?
		`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}
}

func TestMigrate_NilContext(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // exercising nil context validation
	assert.ErrorIs(t, store.Migrate(nil), ErrNilContext)
}

func TestMapSQLiteError(t *testing.T) {
	tests := []struct {
		err  error
		want error
		name string
	}{
		{
			name: "busy",
			err:  sqlite3.Error{Code: sqlite3.ErrBusy},
			want: common.ErrDatabaseBusy,
		},
		{
			name: "locked",
			err:  sqlite3.Error{Code: sqlite3.ErrLocked},
			want: common.ErrDatabaseBusy,
		},
		{
			name: "corrupt",
			err:  sqlite3.Error{Code: sqlite3.ErrCorrupt},
			want: common.ErrDatabaseCorrupted,
		},
		{
			name: "unique constraint",
			err:  sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			want: common.ErrDuplicateEntry,
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrBusy}),
			want: common.ErrDatabaseBusy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapSQLiteError(tt.err), tt.want)
		})
	}

	plain := errors.New("boom")
	assert.Equal(t, plain, mapSQLiteError(plain))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	sentinel := errors.New("stop")
	err := store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO current_products (name, brand, category) VALUES ('Rolled', 'Back', 'blush')
		`); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	refs, err := store.GetCurrentProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, refs)
}
