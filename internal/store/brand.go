// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"indomart/internal/catalog"
	"indomart/internal/models"
)

// BrandStore manages brands in the database.
type BrandStore struct {
	db *sql.DB
}

// NewBrandStore returns a new BrandStore.
func NewBrandStore(db *sql.DB) *BrandStore {
	return &BrandStore{db: db}
}

const brandColumns = `id, name, logo_key, is_active`

func scanBrand(scanner interface{ Scan(...any) error }) (*models.Brand, error) {
	var b models.Brand
	if err := scanner.Scan(&b.ID, &b.Name, &b.LogoKey, &b.IsActive); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new brand. Brand names are unique.
func (s *BrandStore) Create(ctx context.Context, b *models.Brand) (*models.Brand, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO brands (name, logo_key, is_active) VALUES ($1, $2, $3)
		RETURNING `+brandColumns,
		b.Name, b.LogoKey, b.IsActive,
	)
	result, err := scanBrand(row)
	if err != nil {
		return nil, fmt.Errorf("create brand: %w", mapConstraint(err, b.Name))
	}
	return result, nil
}

// List returns brands ordered by name, optionally only the active ones.
func (s *BrandStore) List(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+brandColumns+` FROM brands
		WHERE is_active OR NOT $1
		ORDER BY name, id
	`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var items []models.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// FindByID retrieves a brand by ID. Returns nil if not found.
func (s *BrandStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	b, err := scanBrand(s.db.QueryRowContext(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand by id: %w", err)
	}
	return b, nil
}

// Update writes the name, logo and active flag of a brand.
func (s *BrandStore) Update(ctx context.Context, b *models.Brand) (*models.Brand, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE brands SET name = $1, logo_key = $2, is_active = $3
		WHERE id = $4
		RETURNING `+brandColumns,
		b.Name, b.LogoKey, b.IsActive, b.ID,
	)
	result, err := scanBrand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, b.ID.String(), "brand does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("update brand: %w", mapConstraint(err, b.Name))
	}
	return result, nil
}

// Delete removes a brand. Its products keep existing without a brand and
// its brochures are removed.
func (s *BrandStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Errorf(catalog.ErrNotFound, id.String(), "brand does not exist")
	}
	return nil
}

// BrochureStore manages per-(brand, category) brochures.
type BrochureStore struct {
	db *sql.DB
}

// NewBrochureStore returns a new BrochureStore.
func NewBrochureStore(db *sql.DB) *BrochureStore {
	return &BrochureStore{db: db}
}

// Create attaches a brochure to a brand for one category. A brand holds
// at most one brochure per category.
func (s *BrochureStore) Create(ctx context.Context, b *models.BrandBrochure) (*models.BrandBrochure, error) {
	result := *b
	err := s.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO brand_brochures (brand_id, category_id, file_key, title, is_active)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, is_active, created_at, category_id
		)
		SELECT i.id, i.is_active, i.created_at, c.name
		FROM inserted i JOIN categories c ON c.id = i.category_id
	`, b.BrandID, b.CategoryID, b.FileKey, b.Title, b.IsActive,
	).Scan(&result.ID, &result.IsActive, &result.CreatedAt, &result.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("create brochure: %w", mapConstraint(err, catalog.PairKey(b.BrandID, b.CategoryID)))
	}
	return &result, nil
}

// ListForBrand returns the active brochures of a brand ordered by
// category name.
func (s *BrochureStore) ListForBrand(ctx context.Context, brandID uuid.UUID) ([]models.BrandBrochure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bb.id, bb.brand_id, bb.category_id, c.name, bb.file_key, bb.title,
		       bb.is_active, bb.created_at
		FROM brand_brochures bb
		JOIN categories c ON c.id = bb.category_id
		WHERE bb.brand_id = $1 AND bb.is_active
		ORDER BY c.name, bb.id
	`, brandID)
	if err != nil {
		return nil, fmt.Errorf("list brochures: %w", err)
	}
	defer rows.Close()

	var items []models.BrandBrochure
	for rows.Next() {
		var b models.BrandBrochure
		if err := rows.Scan(
			&b.ID, &b.BrandID, &b.CategoryID, &b.CategoryName, &b.FileKey, &b.Title,
			&b.IsActive, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan brochure: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}
