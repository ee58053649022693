package database

import (
	"context"
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	ctx := context.Background()

	// Seed only writes into an empty catalog, so calling it twice must not
	// fail or duplicate rows. Other packages may share this database, so it
	// is not cleared first.
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	var before int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&before); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	var after int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&after); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if after != before {
		t.Errorf("second Seed changed category count: %d -> %d", before, after)
	}
	if after < 1 {
		t.Errorf("expected at least 1 category, got %d", after)
	}
}

func TestValueArmCheck(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// A value row with two populated arms must be rejected by the schema.
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	var cat, prod, attr string
	if err := tx.QueryRow(`INSERT INTO categories (name, slug) VALUES ('Arm Check', 'arm-check-' || gen_random_uuid()) RETURNING id`).Scan(&cat); err != nil {
		t.Fatalf("insert category: %v", err)
	}
	if err := tx.QueryRow(`INSERT INTO products (category_id, name, slug, price) VALUES ($1, 'P', 'p-' || gen_random_uuid(), 1) RETURNING id`, cat).Scan(&prod); err != nil {
		t.Fatalf("insert product: %v", err)
	}
	if err := tx.QueryRow(`INSERT INTO attributes (name, kind) VALUES ('A', 'text') RETURNING id`).Scan(&attr); err != nil {
		t.Fatalf("insert attribute: %v", err)
	}
	_, err = tx.Exec(`INSERT INTO product_attribute_values (product_id, attribute_id, value_text, value_bool) VALUES ($1, $2, 'x', TRUE)`, prod, attr)
	if err == nil {
		t.Error("expected check violation for a row with two value arms")
	}
}
