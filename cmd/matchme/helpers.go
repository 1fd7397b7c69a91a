package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/config"
	"github.com/Veraticus/matchme/internal/service"
	"github.com/Veraticus/matchme/internal/skintone"
	"github.com/Veraticus/matchme/internal/storage"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"
)

// loadSettings reads the validated runtime configuration.
func loadSettings() (*config.Settings, error) {
	return config.LoadSettings(viper.GetViper())
}

// newAnalyzer builds the photo analyzer for the configured image limits.
// Tests swap it for a stub.
var newAnalyzer = func(settings *config.Settings) service.SkinAnalyzer {
	return skintone.NewAnalyzer(skintone.WithPreprocessor(settings.Preprocessor()))
}

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// readImage reads a photo, refusing files above limit bytes without loading
// them completely.
func readImage(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's command line
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", skintone.ErrImageTooLarge, path, limit)
	}
	return data, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// closeStorage closes the store, keeping the first error. A close failure
// that follows an earlier error is logged.
func closeStorage(store service.Storage, errp *error) {
	cerr := store.Close()
	switch {
	case cerr == nil:
	case *errp == nil:
		*errp = fmt.Errorf("failed to close database: %w", cerr)
	default:
		common.LogError(cerr, "Failed to close database", common.Fields{"cause": (*errp).Error()})
	}
}
