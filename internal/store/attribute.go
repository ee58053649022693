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

// AttributeStore manages the global attribute definitions.
type AttributeStore struct {
	db *sql.DB
}

// NewAttributeStore returns a new AttributeStore.
func NewAttributeStore(db *sql.DB) *AttributeStore {
	return &AttributeStore{db: db}
}

const attributeColumns = `id, name, kind, unit`

func scanAttribute(scanner interface{ Scan(...any) error }) (*models.Attribute, error) {
	var a models.Attribute
	if err := scanner.Scan(&a.ID, &a.Name, &a.Kind, &a.Unit); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new attribute definition.
func (s *AttributeStore) Create(ctx context.Context, a *models.Attribute) (*models.Attribute, error) {
	if !a.Kind.Valid() {
		return nil, catalog.Errorf(catalog.ErrTypeMismatch, string(a.Kind), "unknown attribute kind")
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO attributes (name, kind, unit) VALUES ($1, $2, $3)
		RETURNING `+attributeColumns,
		a.Name, a.Kind, a.Unit,
	)
	result, err := scanAttribute(row)
	if err != nil {
		return nil, fmt.Errorf("create attribute: %w", err)
	}
	return result, nil
}

// List returns every attribute ordered by name.
func (s *AttributeStore) List(ctx context.Context) ([]models.Attribute, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+attributeColumns+` FROM attributes ORDER BY LOWER(name), id`)
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	defer rows.Close()

	var items []models.Attribute
	for rows.Next() {
		a, err := scanAttribute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByID retrieves an attribute by ID. Returns nil if not found.
func (s *AttributeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Attribute, error) {
	a, err := scanAttribute(s.db.QueryRowContext(ctx, `SELECT `+attributeColumns+` FROM attributes WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attribute by id: %w", err)
	}
	return a, nil
}

// Delete removes an attribute together with its assignments and values.
func (s *AttributeStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attributes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attribute: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Errorf(catalog.ErrNotFound, id.String(), "attribute does not exist")
	}
	return nil
}

// lockAttribute reads an attribute FOR SHARE so its kind cannot change
// before the surrounding transaction ends.
func lockAttribute(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Attribute, error) {
	a, err := scanAttribute(tx.QueryRowContext(ctx,
		`SELECT `+attributeColumns+` FROM attributes WHERE id = $1 FOR SHARE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, id.String(), "attribute does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("lock attribute: %w", err)
	}
	return a, nil
}

// CategoryAttributeStore manages which attributes apply to which category.
type CategoryAttributeStore struct {
	db *sql.DB
}

// NewCategoryAttributeStore returns a new CategoryAttributeStore.
func NewCategoryAttributeStore(db *sql.DB) *CategoryAttributeStore {
	return &CategoryAttributeStore{db: db}
}

func listAssignments(ctx context.Context, q queryer, categoryID uuid.UUID) ([]models.CategoryAttribute, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT ca.id, ca.category_id, ca.attribute_id, ca.is_required, ca.sort_order,
		       a.id, a.name, a.kind, a.unit
		FROM category_attributes ca
		JOIN attributes a ON a.id = ca.attribute_id
		WHERE ca.category_id = $1
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category attributes: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryAttribute
	for rows.Next() {
		var ca models.CategoryAttribute
		var a models.Attribute
		if err := rows.Scan(
			&ca.ID, &ca.CategoryID, &ca.AttributeID, &ca.IsRequired, &ca.SortOrder,
			&a.ID, &a.Name, &a.Kind, &a.Unit,
		); err != nil {
			return nil, fmt.Errorf("scan category attribute: %w", err)
		}
		ca.Attribute = &a
		items = append(items, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	catalog.SortAssignments(items)
	return items, nil
}

// ListForCategory returns the attributes assigned to a category in
// display order.
func (s *CategoryAttributeStore) ListForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.CategoryAttribute, error) {
	return listAssignments(ctx, s.db, categoryID)
}

// Assign attaches an attribute to a category. Each (category, attribute)
// pair may be assigned once.
func (s *CategoryAttributeStore) Assign(ctx context.Context, ca *models.CategoryAttribute) (*models.CategoryAttribute, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, `SELECT 1 FROM categories WHERE id = $1`, ca.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return nil, catalog.Errorf(catalog.ErrNotFound, ca.CategoryID.String(), "category does not exist")
	}
	attr, err := lockAttribute(ctx, tx, ca.AttributeID)
	if err != nil {
		return nil, err
	}

	existing, err := listAssignments(ctx, tx, ca.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := catalog.CheckAssignment(existing, *ca); err != nil {
		return nil, err
	}

	result := *ca
	err = tx.QueryRowContext(ctx, `
		INSERT INTO category_attributes (category_id, attribute_id, is_required, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, ca.CategoryID, ca.AttributeID, ca.IsRequired, ca.SortOrder).Scan(&result.ID)
	if err != nil {
		return nil, fmt.Errorf("assign attribute: %w", mapConstraint(err, catalog.PairKey(ca.CategoryID, ca.AttributeID)))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attribute assignment: %w", err)
	}
	result.Attribute = attr
	return &result, nil
}

// Update changes the required flag and display position of an existing
// assignment. Nil arguments keep the stored value.
func (s *CategoryAttributeStore) Update(ctx context.Context, categoryID, attributeID uuid.UUID, isRequired *bool, sortOrder *int) (*models.CategoryAttribute, error) {
	var ca models.CategoryAttribute
	var a models.Attribute
	err := s.db.QueryRowContext(ctx, `
		WITH updated AS (
			UPDATE category_attributes
			SET is_required = COALESCE($1, is_required), sort_order = COALESCE($2, sort_order)
			WHERE category_id = $3 AND attribute_id = $4
			RETURNING id, category_id, attribute_id, is_required, sort_order
		)
		SELECT u.id, u.category_id, u.attribute_id, u.is_required, u.sort_order,
		       a.id, a.name, a.kind, a.unit
		FROM updated u JOIN attributes a ON a.id = u.attribute_id
	`, isRequired, sortOrder, categoryID, attributeID).Scan(
		&ca.ID, &ca.CategoryID, &ca.AttributeID, &ca.IsRequired, &ca.SortOrder,
		&a.ID, &a.Name, &a.Kind, &a.Unit,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, catalog.PairKey(categoryID, attributeID),
			"attribute is not assigned to this category")
	}
	if err != nil {
		return nil, fmt.Errorf("update category attribute: %w", err)
	}
	ca.Attribute = &a
	return &ca, nil
}

// Unassign detaches an attribute from a category. Values already stored
// on products are kept.
func (s *CategoryAttributeStore) Unassign(ctx context.Context, categoryID, attributeID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM category_attributes WHERE category_id = $1 AND attribute_id = $2`, categoryID, attributeID)
	if err != nil {
		return fmt.Errorf("unassign attribute: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Errorf(catalog.ErrNotFound, catalog.PairKey(categoryID, attributeID),
			"attribute is not assigned to this category")
	}
	return nil
}
