package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
)

// SaveProducts upserts products in a single transaction. A re-imported
// product keeps its original catalog position.
func (s *SQLiteStorage) SaveProducts(ctx context.Context, products []model.Product) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProducts(products); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveProductsTx(ctx, tx, products)
	})
}

func (s *SQLiteStorage) saveProductsTx(ctx context.Context, tx *sql.Tx, products []model.Product) error {
	productStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, name, brand, category, price, currency, image, rating, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			brand = excluded.brand,
			category = excluded.category,
			price = excluded.price,
			currency = excluded.currency,
			image = excluded.image,
			rating = excluded.rating,
			description = excluded.description
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare product statement: %w", err)
	}
	defer func() { _ = productStmt.Close() }()

	colorStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_colors (product_id, position, name, hex) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare color statement: %w", err)
	}
	defer func() { _ = colorStmt.Close() }()

	tagStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_tags (product_id, position, tag) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare tag statement: %w", err)
	}
	defer func() { _ = tagStmt.Close() }()

	for i := range products {
		p := &products[i]

		var rating sql.NullFloat64
		if p.Rating != nil {
			rating = sql.NullFloat64{Float64: *p.Rating, Valid: true}
		}

		if _, err := productStmt.ExecContext(ctx,
			p.ID, p.Name, p.Brand, string(p.Category), p.Price, p.Currency, p.Image, rating, p.Description,
		); err != nil {
			return fmt.Errorf("failed to save product %s: %w", p.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM product_colors WHERE product_id = ?`, p.ID); err != nil {
			return fmt.Errorf("failed to reset colors for %s: %w", p.ID, err)
		}
		for pos, c := range p.Colors {
			if _, err := colorStmt.ExecContext(ctx, p.ID, pos, c.Name, c.Hex); err != nil {
				return fmt.Errorf("failed to save color for %s: %w", p.ID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM product_tags WHERE product_id = ?`, p.ID); err != nil {
			return fmt.Errorf("failed to reset tags for %s: %w", p.ID, err)
		}
		for pos, tag := range p.Tags {
			if _, err := tagStmt.ExecContext(ctx, p.ID, pos, tag); err != nil {
				return fmt.Errorf("failed to save tag for %s: %w", p.ID, err)
			}
		}
	}

	return nil
}

// GetProducts returns the whole catalog in import order.
func (s *SQLiteStorage) GetProducts(ctx context.Context) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getProductsTx(ctx, s.db, "", nil)
}

// GetProductsByCategory returns the products of one category in import order.
func (s *SQLiteStorage) GetProductsByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, category)
	}
	return s.getProductsTx(ctx, s.db, "WHERE category = ?", []any{string(category)})
}

// GetProductByID returns a single product or common.ErrNotFound.
func (s *SQLiteStorage) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	products, err := s.getProductsTx(ctx, s.db, "WHERE id = ?", []any{id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product %s: %w", id, common.ErrNotFound)
	}
	return &products[0], nil
}

func (s *SQLiteStorage) getProductsTx(ctx context.Context, q queryable, where string, args []any) ([]model.Product, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, brand, category, price, currency, image, rating, description
		FROM products
		`+where+`
		ORDER BY seq
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := []model.Product{}
	index := make(map[string]int)
	for rows.Next() {
		var p model.Product
		var category string
		var rating sql.NullFloat64
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Brand,
			&category,
			&p.Price,
			&p.Currency,
			&p.Image,
			&rating,
			&p.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Category = model.Category(category)
		if rating.Valid {
			p.Rating = model.Float64(rating.Float64)
		}
		p.Colors = []model.ColorSwatch{}
		p.Tags = []string{}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if len(products) == 0 {
		return products, nil
	}
	if err := s.attachColors(ctx, q, products, index); err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, q, products, index); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *SQLiteStorage) attachColors(ctx context.Context, q queryable, products []model.Product, index map[string]int) error {
	rows, err := q.QueryContext(ctx, `
		SELECT product_id, name, hex FROM product_colors ORDER BY product_id, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query product colors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		var swatch model.ColorSwatch
		if err := rows.Scan(&id, &swatch.Name, &swatch.Hex); err != nil {
			return fmt.Errorf("failed to scan product color: %w", err)
		}
		if i, ok := index[id]; ok {
			products[i].Colors = append(products[i].Colors, swatch)
		}
	}
	return rows.Err()
}

func (s *SQLiteStorage) attachTags(ctx context.Context, q queryable, products []model.Product, index map[string]int) error {
	rows, err := q.QueryContext(ctx, `
		SELECT product_id, tag FROM product_tags ORDER BY product_id, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query product tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("failed to scan product tag: %w", err)
		}
		if i, ok := index[id]; ok {
			products[i].Tags = append(products[i].Tags, tag)
		}
	}
	return rows.Err()
}

// CountProducts returns the number of catalog products.
func (s *SQLiteStorage) CountProducts(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CountProductsByCategory returns product counts keyed by category.
func (s *SQLiteStorage) CountProductsByCategory(ctx context.Context) (map[model.Category]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM products GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count products by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.Category]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[model.Category(category)] = count
	}
	return counts, rows.Err()
}

// ClearProducts removes the whole catalog and returns how many products
// were deleted.
func (s *SQLiteStorage) ClearProducts(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"product_colors", "product_tags"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM products`)
		if err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return int(deleted), nil
}
