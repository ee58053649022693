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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, parent_id, is_active, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func listCategories(ctx context.Context, q queryer) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY LOWER(name), slug`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return listCategories(ctx, s.db)
}

// Tree loads a snapshot of the whole hierarchy.
func (s *CategoryStore) Tree(ctx context.Context) (*catalog.Tree, error) {
	cats, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewTree(cats), nil
}

// lockedTree takes the tree lock inside tx and loads the snapshot that the
// rest of the transaction validates against.
func lockedTree(ctx context.Context, tx *sql.Tx) (*catalog.Tree, error) {
	if err := lockTree(ctx, tx); err != nil {
		return nil, err
	}
	cats, err := listCategories(ctx, tx)
	if err != nil {
		return nil, err
	}
	return catalog.NewTree(cats), nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// anchorsProducts reports whether any product is attached directly to id.
func anchorsProducts(ctx context.Context, q queryer, id uuid.UUID) (bool, error) {
	ok, err := exists(ctx, q, `SELECT 1 FROM products WHERE category_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("check products of category: %w", err)
	}
	return ok, nil
}

// checkParentHoldsNoProducts rejects parents that already anchor products;
// giving them a child would leave those products on a non-leaf node.
func checkParentHoldsNoProducts(ctx context.Context, q queryer, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	held, err := anchorsProducts(ctx, q, *parentID)
	if err != nil {
		return err
	}
	if held {
		return catalog.Errorf(catalog.ErrInvalidParent, parentID.String(), "parent category already holds products")
	}
	return nil
}

// Create inserts a new category and returns it. An empty slug is derived
// from the name.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	tree, err := lockedTree(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tree.Insert(*c); err != nil {
		return nil, err
	}
	if err := checkParentHoldsNoProducts(ctx, tx, c.ParentID); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO categories (id, name, slug, parent_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.ID, c.Name, c.Slug, c.ParentID, c.IsActive,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", mapConstraint(err, c.Slug))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category: %w", err)
	}
	return result, nil
}

// Update modifies the name, slug and active flag of a category. The
// parent is changed only through SetParent.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE categories SET name = $1, slug = $2, is_active = $3
		WHERE id = $4
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.IsActive, c.ID,
	)
	result, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, c.ID.String(), "category does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", mapConstraint(err, c.Slug))
	}
	return result, nil
}

// SetParent moves a category under parentID, or makes it a root when
// parentID is nil. The move is validated against a locked snapshot so two
// concurrent moves can never combine into a four-level chain.
func (s *CategoryStore) SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	tree, err := lockedTree(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tree.SetParent(id, parentID); err != nil {
		return nil, err
	}
	if err := checkParentHoldsNoProducts(ctx, tx, parentID); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE categories SET parent_id = $1 WHERE id = $2
		RETURNING `+categoryColumns,
		parentID, id,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("set category parent: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category parent: %w", err)
	}
	return result, nil
}

// Delete removes a category and, by cascade, its whole subtree with the
// attribute assignments and brochures attached to it. It is refused when
// any product is anchored anywhere in the subtree.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	tree, err := lockedTree(ctx, tx)
	if err != nil {
		return err
	}
	subtree := tree.Subtree(id)
	if subtree == nil {
		return catalog.Errorf(catalog.ErrNotFound, id.String(), "category does not exist")
	}

	var products int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = ANY($1::uuid[])`, uuidArray(subtree),
	).Scan(&products)
	if err != nil {
		return fmt.Errorf("count products in subtree: %w", err)
	}
	if products > 0 {
		return catalog.Errorf(catalog.ErrProtectedReference, id.String(),
			"%d product(s) are anchored in this category or below it", products)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", mapConstraint(err, id.String()))
	}
	return tx.Commit()
}
