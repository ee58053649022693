// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"indomart/internal/database"
	"indomart/internal/metrics"
	"indomart/internal/storage"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "indomart")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "indomart")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds the handler under test and its database.
type testEnv struct {
	DB      *sql.DB
	Metrics *metrics.Metrics
	Catalog *Catalog
}

// newTestEnv creates a catalog handler without Valkey or S3.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	m := metrics.New()
	return &testEnv{
		DB:      db,
		Metrics: m,
		Catalog: NewCatalog(db, nil, nil, storage.BaseURL("http://media.test"), m),
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	return withChiURLParams(r, key, value)
}

// withChiURLParams adds key/value pairs as chi URL parameters.
func withChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request with body encoded as JSON.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decode reads the recorder body into dst.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

// uniq suffixes name so parallel runs against a shared database do not
// collide on unique names and slugs.
func uniq(name string) string {
	return name + " " + uuid.NewString()[:8]
}

// cleanCategories removes the given roots together with their products
// and subtrees.
func cleanCategories(t *testing.T, db *sql.DB, roots ...uuid.UUID) {
	t.Helper()
	for _, id := range roots {
		db.Exec(`
			WITH RECURSIVE sub AS (
				SELECT id FROM categories WHERE id = $1
				UNION ALL
				SELECT c.id FROM categories c JOIN sub ON c.parent_id = sub.id
			)
			DELETE FROM products WHERE category_id IN (SELECT id FROM sub)`, id)
		db.Exec("DELETE FROM categories WHERE id = $1", id)
	}
}
