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
	"indomart/internal/slug"
)

// ProductStore writes products. Reads go through CatalogIndex.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, category_id, brand_id, name, slug, image_key, rating, min_order_quantity,
	is_exclusive, is_featured, description, price, old_price, stock, is_active, created_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.CategoryID, &p.BrandID, &p.Name, &p.Slug, &p.ImageKey, &p.Rating, &p.MinOrderQuantity,
		&p.IsExclusive, &p.IsFeatured, &p.Description, &p.Price, &p.OldPrice, &p.Stock, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product. The category must exist and have no children;
// an empty slug is derived from the name and unset rating and minimum order
// quantity take their defaults.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Name)
	}
	if p.Rating == 0 {
		p.Rating = models.DefaultRating
	}
	if p.MinOrderQuantity == 0 {
		p.MinOrderQuantity = models.DefaultMinOrderQuantity
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Holding the tree lock keeps a child from appearing under the anchor
	// between the check and the insert.
	tree, err := lockedTree(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := checkAnchor(tree, p.CategoryID); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO products (category_id, brand_id, name, slug, image_key, rating, min_order_quantity,
			is_exclusive, is_featured, description, price, old_price, stock, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+productColumns,
		p.CategoryID, p.BrandID, p.Name, p.Slug, p.ImageKey, p.Rating, p.MinOrderQuantity,
		p.IsExclusive, p.IsFeatured, p.Description, p.Price, p.OldPrice, p.Stock, p.IsActive,
	)
	result, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", mapConstraint(err, p.Slug))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product: %w", err)
	}
	return result, nil
}

// checkAnchor rejects categories that do not exist or have children.
func checkAnchor(tree *catalog.Tree, categoryID uuid.UUID) error {
	if _, ok := tree.Get(categoryID); !ok {
		return catalog.Errorf(catalog.ErrNotFound, categoryID.String(), "category does not exist")
	}
	if !tree.IsProductAnchor(categoryID) {
		return catalog.Errorf(catalog.ErrInvalidAnchor, categoryID.String(),
			"products can only be attached to categories without children")
	}
	return nil
}

// FindByID retrieves a product row without its relations, active or not.
// Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// Update writes every editable column of p. Moving the product to another
// category re-checks the anchor under the tree lock; an empty slug is
// derived from the name.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT category_id FROM products WHERE id = $1 FOR UPDATE`, p.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, p.ID.String(), "product does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}
	if p.CategoryID != current {
		tree, err := lockedTree(ctx, tx)
		if err != nil {
			return nil, err
		}
		if err := checkAnchor(tree, p.CategoryID); err != nil {
			return nil, err
		}
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE products SET category_id = $1, brand_id = $2, name = $3, slug = $4, image_key = $5,
			rating = $6, min_order_quantity = $7, is_exclusive = $8, is_featured = $9, description = $10,
			price = $11, old_price = $12, stock = $13, is_active = $14
		WHERE id = $15
		RETURNING `+productColumns,
		p.CategoryID, p.BrandID, p.Name, p.Slug, p.ImageKey, p.Rating, p.MinOrderQuantity,
		p.IsExclusive, p.IsFeatured, p.Description, p.Price, p.OldPrice, p.Stock, p.IsActive, p.ID,
	)
	result, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", mapConstraint(err, p.Slug))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product: %w", err)
	}
	return result, nil
}

// Delete removes a product and its attribute values.
func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Errorf(catalog.ErrNotFound, id.String(), "product does not exist")
	}
	return nil
}
