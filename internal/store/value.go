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

// ValueStore writes typed attribute values for products.
type ValueStore struct {
	db *sql.DB
}

// NewValueStore returns a new ValueStore.
func NewValueStore(db *sql.DB) *ValueStore {
	return &ValueStore{db: db}
}

func lockProduct(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	var found uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1 FOR SHARE`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Errorf(catalog.ErrNotFound, id.String(), "product does not exist")
	}
	if err != nil {
		return fmt.Errorf("lock product: %w", err)
	}
	return nil
}

func insertValue(ctx context.Context, tx *sql.Tx, productID uuid.UUID, attr *models.Attribute, v models.Value) (*models.ProductAttributeValue, error) {
	stored := catalog.Store(v)
	pav := &models.ProductAttributeValue{ProductID: productID, AttributeID: attr.ID, Value: v, Attribute: attr}
	err := tx.QueryRowContext(ctx, `
		INSERT INTO product_attribute_values (product_id, attribute_id, value_text, value_number, value_bool)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, productID, attr.ID, stored.Text, stored.Number, stored.Bool).Scan(&pav.ID)
	if err != nil {
		return nil, fmt.Errorf("insert attribute value: %w", mapConstraint(err, catalog.PairKey(productID, attr.ID)))
	}
	return pav, nil
}

// Set writes one value. Insert fails with ErrDuplicateAssignment if the
// product already has a value for the attribute; Update fails with
// ErrNotFound if it has none.
func (s *ValueStore) Set(ctx context.Context, productID, attributeID uuid.UUID, v models.Value, mode catalog.WriteMode) (*models.ProductAttributeValue, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockProduct(ctx, tx, productID); err != nil {
		return nil, err
	}
	attr, err := lockAttribute(ctx, tx, attributeID)
	if err != nil {
		return nil, err
	}
	if err := catalog.CheckValue(*attr, v); err != nil {
		return nil, err
	}

	var pav *models.ProductAttributeValue
	switch mode {
	case catalog.Insert:
		pav, err = insertValue(ctx, tx, productID, attr, v)
		if err != nil {
			return nil, err
		}
	case catalog.Update:
		stored := catalog.Store(v)
		pav = &models.ProductAttributeValue{ProductID: productID, AttributeID: attributeID, Value: v, Attribute: attr}
		err = tx.QueryRowContext(ctx, `
			UPDATE product_attribute_values
			SET value_text = $1, value_number = $2, value_bool = $3
			WHERE product_id = $4 AND attribute_id = $5
			RETURNING id
		`, stored.Text, stored.Number, stored.Bool, productID, attributeID).Scan(&pav.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.Errorf(catalog.ErrNotFound, catalog.PairKey(productID, attributeID),
				"product has no value for this attribute")
		}
		if err != nil {
			return nil, fmt.Errorf("update attribute value: %w", err)
		}
	default:
		return nil, fmt.Errorf("set attribute value: unknown write mode %d", mode)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attribute value: %w", err)
	}
	return pav, nil
}

// SetBatch inserts several values for one product atomically. The batch
// is rejected before any write if an attribute repeats, does not exist, or
// receives a payload of the wrong kind.
func (s *ValueStore) SetBatch(ctx context.Context, productID uuid.UUID, entries []catalog.BatchEntry) ([]models.ProductAttributeValue, error) {
	if err := catalog.ValidateBatch(entries); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockProduct(ctx, tx, productID); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.AttributeID
	}
	attrs, err := lockAttributes(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	if err := catalog.CheckBatch(attrs, entries); err != nil {
		return nil, err
	}

	out := make([]models.ProductAttributeValue, 0, len(entries))
	for _, e := range entries {
		attr := attrs[e.AttributeID]
		pav, err := insertValue(ctx, tx, productID, &attr, e.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, *pav)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attribute values: %w", err)
	}
	return out, nil
}

func lockAttributes(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) (map[uuid.UUID]models.Attribute, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+attributeColumns+` FROM attributes WHERE id = ANY($1::uuid[]) FOR SHARE`, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("lock attributes: %w", err)
	}
	defer rows.Close()

	attrs := make(map[uuid.UUID]models.Attribute, len(ids))
	for rows.Next() {
		a, err := scanAttribute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		attrs[a.ID] = *a
	}
	return attrs, rows.Err()
}

// listValues loads the values of a product joined with their definitions,
// in attribute name order. Each row is read through the attribute's kind.
func listValues(ctx context.Context, q queryer, productID uuid.UUID) ([]models.ProductAttributeValue, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT v.id, v.product_id, v.attribute_id, v.value_text, v.value_number, v.value_bool,
		       a.id, a.name, a.kind, a.unit
		FROM product_attribute_values v
		JOIN attributes a ON a.id = v.attribute_id
		WHERE v.product_id = $1
		ORDER BY LOWER(a.name), a.id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list attribute values: %w", err)
	}
	defer rows.Close()

	var items []models.ProductAttributeValue
	for rows.Next() {
		var pav models.ProductAttributeValue
		var a models.Attribute
		var stored catalog.StoredValue
		if err := rows.Scan(
			&pav.ID, &pav.ProductID, &pav.AttributeID, &stored.Text, &stored.Number, &stored.Bool,
			&a.ID, &a.Name, &a.Kind, &a.Unit,
		); err != nil {
			return nil, fmt.Errorf("scan attribute value: %w", err)
		}
		pav.Value = catalog.Resolve(a.Kind, stored)
		pav.Attribute = &a
		items = append(items, pav)
	}
	return items, rows.Err()
}

// Delete removes the value a product holds for an attribute.
func (s *ValueStore) Delete(ctx context.Context, productID, attributeID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM product_attribute_values WHERE product_id = $1 AND attribute_id = $2`, productID, attributeID)
	if err != nil {
		return fmt.Errorf("delete attribute value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Errorf(catalog.ErrNotFound, catalog.PairKey(productID, attributeID),
			"product has no value for this attribute")
	}
	return nil
}

// ListForProduct returns every value recorded for a product.
func (s *ValueStore) ListForProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductAttributeValue, error) {
	return listValues(ctx, s.db, productID)
}
