package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/goccy/go-json"
)

// SaveProfile stores the user's skin profile, replacing any previous one.
func (s *SQLiteStorage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile (id, skin_tone, undertone, confidence, source, analyzed_at)
			VALUES (1, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				skin_tone = excluded.skin_tone,
				undertone = excluded.undertone,
				confidence = excluded.confidence,
				source = excluded.source,
				analyzed_at = excluded.analyzed_at
		`, string(profile.SkinTone), string(profile.Undertone), profile.Confidence, string(profile.Source), profile.AnalyzedAt)
		if err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		return nil
	})
}

// GetProfile returns the saved profile or common.ErrNoProfile.
func (s *SQLiteStorage) GetProfile(ctx context.Context) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var p model.Profile
	var tone, undertone, source string
	err := s.db.QueryRowContext(ctx, `
		SELECT skin_tone, undertone, confidence, source, analyzed_at
		FROM profile
		WHERE id = 1
	`).Scan(&tone, &undertone, &p.Confidence, &source, &p.AnalyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.SkinTone = model.SkinTone(tone)
	p.Undertone = model.Undertone(undertone)
	p.Source = model.ProfileSource(source)
	return &p, nil
}

// AddCurrentProduct records a product the user owns. Names are unique
// regardless of case.
func (s *SQLiteStorage) AddCurrentProduct(ctx context.Context, ref *model.CurrentProductRef) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCurrentProduct(ref); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO current_products (name, brand, category) VALUES (?, ?, ?)
		`, strings.TrimSpace(ref.Name), strings.TrimSpace(ref.Brand), string(ref.Category))
		if err != nil {
			return fmt.Errorf("failed to add current product %q: %w", ref.Name, err)
		}
		return nil
	})
}

// RemoveCurrentProduct deletes an owned product by case-insensitive name.
func (s *SQLiteStorage) RemoveCurrentProduct(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM current_products WHERE name = ? COLLATE NOCASE
		`, strings.TrimSpace(name))
		if err != nil {
			return fmt.Errorf("failed to remove current product: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check removal: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("current product %q: %w", name, common.ErrNotFound)
		}
		return nil
	})
}

// GetCurrentProducts returns owned products in the order they were added.
func (s *SQLiteStorage) GetCurrentProducts(ctx context.Context) ([]model.CurrentProductRef, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, brand, category FROM current_products ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query current products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	refs := []model.CurrentProductRef{}
	for rows.Next() {
		var ref model.CurrentProductRef
		var category string
		if err := rows.Scan(&ref.Name, &ref.Brand, &category); err != nil {
			return nil, fmt.Errorf("failed to scan current product: %w", err)
		}
		ref.Category = model.Category(category)
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating current products: %w", err)
	}
	return refs, nil
}

// SaveAnalysis appends a classification run to the history and sets its ID.
func (s *SQLiteStorage) SaveAnalysis(ctx context.Context, record *model.AnalysisRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAnalysis(record); err != nil {
		return err
	}

	probabilities, err := json.Marshal(record.Result.Probabilities)
	if err != nil {
		return fmt.Errorf("failed to encode probabilities: %w", err)
	}
	colorData, err := json.Marshal(record.Result.ColorStatistics)
	if err != nil {
		return fmt.Errorf("failed to encode color data: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO analysis_history
				(skin_tone, undertone, confidence, probabilities, color_data, source, degraded, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			string(record.Result.SkinTone),
			string(record.Result.Undertone),
			record.Result.Confidence,
			string(probabilities),
			string(colorData),
			record.Source,
			record.Degraded,
			record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read analysis ID: %w", err)
		}
		record.ID = id
		return nil
	})
}

// GetAnalysisHistory returns up to limit runs, newest first. A limit of zero
// returns everything.
func (s *SQLiteStorage) GetAnalysisHistory(ctx context.Context, limit int) ([]model.AnalysisRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, skin_tone, undertone, confidence, probabilities, color_data, source, degraded, created_at
		FROM analysis_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []model.AnalysisRecord{}
	for rows.Next() {
		var rec model.AnalysisRecord
		var tone, undertone, probabilities, colorData string
		if err := rows.Scan(
			&rec.ID,
			&tone,
			&undertone,
			&rec.Result.Confidence,
			&probabilities,
			&colorData,
			&rec.Source,
			&rec.Degraded,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		rec.Result.SkinTone = model.SkinTone(tone)
		rec.Result.Undertone = model.Undertone(undertone)
		if err := json.Unmarshal([]byte(probabilities), &rec.Result.Probabilities); err != nil {
			return nil, fmt.Errorf("failed to decode probabilities for analysis %d: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(colorData), &rec.Result.ColorStatistics); err != nil {
			return nil, fmt.Errorf("failed to decode color data for analysis %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis history: %w", err)
	}
	return records, nil
}
