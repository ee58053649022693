// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"indomart/internal/catalog"
	"indomart/internal/models"
)

// CatalogIndex is the read side of the catalog: snapshots for the tree,
// product aggregates, filtered listings, and the search primitives.
type CatalogIndex struct {
	db *sql.DB
}

// NewCatalogIndex returns a new CatalogIndex.
func NewCatalogIndex(db *sql.DB) *CatalogIndex {
	return &CatalogIndex{db: db}
}

// Categories returns every category, for building a catalog.Tree.
func (x *CatalogIndex) Categories(ctx context.Context) ([]models.Category, error) {
	return listCategories(ctx, x.db)
}

// Product loads a product with its category, brand, attribute values and
// unmet required attributes in three queries. Returns nil if not found.
func (x *CatalogIndex) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var (
		p       models.Product
		cat     models.Category
		brandID uuid.NullUUID
		bName   sql.NullString
		bLogo   sql.NullString
		bActive sql.NullBool
	)
	err := x.db.QueryRowContext(ctx, `
		SELECT p.id, p.category_id, p.brand_id, p.name, p.slug, p.image_key, p.rating, p.min_order_quantity,
		       p.is_exclusive, p.is_featured, p.description, p.price, p.old_price, p.stock, p.is_active, p.created_at,
		       c.id, c.name, c.slug, c.parent_id, c.is_active, c.created_at,
		       b.id, b.name, b.logo_key, b.is_active
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN brands b ON b.id = p.brand_id
		WHERE p.id = $1
	`, id).Scan(
		&p.ID, &p.CategoryID, &p.BrandID, &p.Name, &p.Slug, &p.ImageKey, &p.Rating, &p.MinOrderQuantity,
		&p.IsExclusive, &p.IsFeatured, &p.Description, &p.Price, &p.OldPrice, &p.Stock, &p.IsActive, &p.CreatedAt,
		&cat.ID, &cat.Name, &cat.Slug, &cat.ParentID, &cat.IsActive, &cat.CreatedAt,
		&brandID, &bName, &bLogo, &bActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	p.Category = &cat
	if brandID.Valid {
		p.Brand = &models.Brand{ID: brandID.UUID, Name: bName.String, LogoKey: bLogo.String, IsActive: bActive.Bool}
	}

	p.Attributes, err = listValues(ctx, x.db, id)
	if err != nil {
		return nil, err
	}
	assignments, err := listAssignments(ctx, x.db, p.CategoryID)
	if err != nil {
		return nil, err
	}
	p.MissingRequired = catalog.MissingRequired(assignments, p.Attributes)
	return &p, nil
}

// ProductFilter narrows ListProducts. Zero fields do not filter.
type ProductFilter struct {
	Active     *bool
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	Page       int
	PerPage    int
}

// ListProducts returns one page of products, newest first, and the total
// number of matches.
func (x *CatalogIndex) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Active != nil {
		add("is_active = $%d", *f.Active)
	}
	if f.CategoryID != nil {
		add("category_id = $%d", *f.CategoryID)
	}
	if f.BrandID != nil {
		add("brand_id = $%d", *f.BrandID)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)
	q := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		productColumns, clause, len(args)-1, len(args))

	rows, err := x.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// SearchProducts matches active products by name, slug, category name,
// parent category name or brand name, newest first. Each result carries
// its category and, when set, its brand.
func (x *CatalogIndex) SearchProducts(ctx context.Context, q string, limit int) ([]models.Product, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.slug, p.image_key, p.price, p.old_price,
		       c.id, c.name, c.slug,
		       b.id, b.name, b.logo_key
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN categories pc ON pc.id = c.parent_id
		LEFT JOIN brands b ON b.id = p.brand_id
		WHERE p.is_active
		  AND (p.name ILIKE $1 OR p.slug ILIKE $1 OR c.name ILIKE $1
		       OR pc.name ILIKE $1 OR b.name ILIKE $1)
		ORDER BY p.created_at DESC, p.id
		LIMIT $2
	`, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		var (
			p       models.Product
			cat     models.Category
			brandID uuid.NullUUID
			bName   sql.NullString
			bLogo   sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.ImageKey, &p.Price, &p.OldPrice,
			&cat.ID, &cat.Name, &cat.Slug,
			&brandID, &bName, &bLogo,
		); err != nil {
			return nil, fmt.Errorf("scan product hit: %w", err)
		}
		p.CategoryID = cat.ID
		p.Category = &cat
		if brandID.Valid {
			p.BrandID = &brandID.UUID
			p.Brand = &models.Brand{ID: brandID.UUID, Name: bName.String, LogoKey: bLogo.String}
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// SearchBrands matches active brands by name, ordered by name.
func (x *CatalogIndex) SearchBrands(ctx context.Context, q string, limit int) ([]models.Brand, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT `+brandColumns+` FROM brands
		WHERE is_active AND name ILIKE $1
		ORDER BY name, id
		LIMIT $2
	`, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search brands: %w", err)
	}
	defer rows.Close()

	var items []models.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand hit: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// SearchCategories matches active categories by name, slug, parent name
// or grandparent name, ordered by parent and name with roots last.
func (x *CatalogIndex) SearchCategories(ctx context.Context, q string, limit int) ([]models.Category, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.parent_id, c.is_active, c.created_at
		FROM categories c
		LEFT JOIN categories p ON p.id = c.parent_id
		LEFT JOIN categories g ON g.id = p.parent_id
		WHERE c.is_active
		  AND (c.name ILIKE $1 OR c.slug ILIKE $1 OR p.name ILIKE $1 OR g.name ILIKE $1)
		ORDER BY c.parent_id, c.name, c.id
		LIMIT $2
	`, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category hit: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
