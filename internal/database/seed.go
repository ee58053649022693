package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"indomart/internal/slug"
)

// seedAttribute is one attribute of the development catalog together with
// its assignment to the Smartphones leaf.
type seedAttribute struct {
	name     string
	kind     string
	unit     string
	required bool
}

var seedAttributes = []seedAttribute{
	{name: "RAM", kind: "number", unit: "GB", required: true},
	{name: "Storage", kind: "number", unit: "GB", required: true},
	{name: "Color", kind: "text"},
	{name: "5G", kind: "bool"},
}

// Seed populates the database with a small development catalog:
// Electronics > Mobiles > {Smartphones, Feature Phones}, a brand, a few
// attributes on Smartphones and one product with values. It does nothing
// when any category already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	insertCategory := func(name string, parent *uuid.UUID) (uuid.UUID, error) {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO categories (name, slug, parent_id) VALUES ($1, $2, $3) RETURNING id`,
			name, slug.Generate(name), parent,
		).Scan(&id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("seed insert category %q: %w", name, err)
		}
		return id, nil
	}

	electronics, err := insertCategory("Electronics", nil)
	if err != nil {
		return err
	}
	mobiles, err := insertCategory("Mobiles", &electronics)
	if err != nil {
		return err
	}
	smartphones, err := insertCategory("Smartphones", &mobiles)
	if err != nil {
		return err
	}
	if _, err := insertCategory("Feature Phones", &mobiles); err != nil {
		return err
	}

	var brand uuid.UUID
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO brands (name) VALUES ($1) RETURNING id`, "Samsung",
	).Scan(&brand); err != nil {
		return fmt.Errorf("seed insert brand: %w", err)
	}

	attrIDs := make(map[string]uuid.UUID, len(seedAttributes))
	for i, a := range seedAttributes {
		var id uuid.UUID
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO attributes (name, kind, unit) VALUES ($1, $2, $3) RETURNING id`,
			a.name, a.kind, a.unit,
		).Scan(&id); err != nil {
			return fmt.Errorf("seed insert attribute %q: %w", a.name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO category_attributes (category_id, attribute_id, is_required, sort_order)
			 VALUES ($1, $2, $3, $4)`,
			smartphones, id, a.required, i,
		); err != nil {
			return fmt.Errorf("seed assign attribute %q: %w", a.name, err)
		}
		attrIDs[a.name] = id
	}

	const productName = "Galaxy S24"
	var product uuid.UUID
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO products (category_id, brand_id, name, slug, price, stock, is_featured)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE) RETURNING id`,
		smartphones, brand, productName, slug.Generate(productName), decimal.RequireFromString("799.00"), 25,
	).Scan(&product); err != nil {
		return fmt.Errorf("seed insert product: %w", err)
	}

	values := []struct {
		attr string
		col  string
		v    any
	}{
		{"RAM", "value_number", decimal.NewFromInt(8)},
		{"Storage", "value_number", decimal.NewFromInt(256)},
		{"Color", "value_text", "Onyx Black"},
		{"5G", "value_bool", true},
	}
	for _, v := range values {
		q := fmt.Sprintf(`INSERT INTO product_attribute_values (product_id, attribute_id, %s) VALUES ($1, $2, $3)`, v.col)
		if _, err := tx.ExecContext(ctx, q, product, attrIDs[v.attr], v.v); err != nil {
			return fmt.Errorf("seed insert value %q: %w", v.attr, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development catalog",
		"categories", 4,
		"attributes", len(seedAttributes),
		"product", productName,
	)

	return nil
}
