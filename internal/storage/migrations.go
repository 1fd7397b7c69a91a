package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Product catalog",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS products (
					seq INTEGER PRIMARY KEY AUTOINCREMENT,
					id TEXT UNIQUE NOT NULL,
					name TEXT NOT NULL,
					brand TEXT NOT NULL,
					category TEXT NOT NULL,
					price REAL NOT NULL DEFAULT 0,
					currency TEXT NOT NULL DEFAULT 'CAD',
					image TEXT NOT NULL DEFAULT '',
					rating REAL,
					description TEXT NOT NULL DEFAULT '',
					imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
				`CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand COLLATE NOCASE)`,

				`CREATE TABLE IF NOT EXISTS product_colors (
					product_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					hex TEXT NOT NULL,
					PRIMARY KEY (product_id, position),
					FOREIGN KEY (product_id) REFERENCES products(id)
				)`,

				`CREATE TABLE IF NOT EXISTS product_tags (
					product_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					tag TEXT NOT NULL,
					PRIMARY KEY (product_id, position),
					FOREIGN KEY (product_id) REFERENCES products(id)
				)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Skin profile and owned products",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS profile (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					skin_tone TEXT NOT NULL,
					undertone TEXT NOT NULL,
					confidence REAL NOT NULL,
					source TEXT NOT NULL CHECK (source IN ('ANALYSIS', 'MANUAL')),
					analyzed_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS current_products (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					brand TEXT NOT NULL,
					category TEXT NOT NULL,
					added_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_current_products_name ON current_products(name COLLATE NOCASE)`,
			})
		},
	},
	{
		Version:     3,
		Description: "Analysis history for auditing",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS analysis_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					skin_tone TEXT NOT NULL,
					undertone TEXT NOT NULL,
					confidence REAL NOT NULL,
					probabilities TEXT NOT NULL,
					color_data TEXT NOT NULL,
					source TEXT NOT NULL DEFAULT '',
					degraded INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_analysis_history_created ON analysis_history(created_at)`,
			})
		},
	},
}

// Migrate brings the schema up to ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the schema version stored in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
