// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"indomart/internal/models"
	"indomart/internal/store"
)

// createCategory posts a category and returns it.
func createCategory(t *testing.T, env *testEnv, name string, parent *uuid.UUID) models.Category {
	t.Helper()
	rr := httptest.NewRecorder()
	env.Catalog.CreateCategory(rr, jsonRequest(t, http.MethodPost, "/api/categories",
		map[string]any{"name": uniq(name), "parent_id": parent}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create %s: got %d: %s", name, rr.Code, rr.Body.String())
	}
	var c models.Category
	decode(t, rr, &c)
	return c
}

func TestCategoryHandlers(t *testing.T) {
	env := newTestEnv(t)

	main := createCategory(t, env, "Electronics", nil)
	t.Cleanup(func() { cleanCategories(t, env.DB, main.ID) })
	sub := createCategory(t, env, "Mobiles", &main.ID)
	leaf := createCategory(t, env, "Smartphones", &sub.ID)

	t.Run("create under leaf is rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.CreateCategory(rr, jsonRequest(t, http.MethodPost, "/api/categories",
			map[string]any{"name": uniq("Android"), "parent_id": leaf.ID}))
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status: got %d, want 422", rr.Code)
		}
		var body errorBody
		decode(t, rr, &body)
		if body.Error != "invalid_parent" {
			t.Errorf("error: got %q, want invalid_parent", body.Error)
		}
		if got := testutil.ToFloat64(env.Metrics.CatalogRejections.WithLabelValues("invalid_parent")); got != 1 {
			t.Errorf("rejections: got %v, want 1", got)
		}
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.CreateCategory(rr, jsonRequest(t, http.MethodPost, "/api/categories",
			map[string]any{"name": "Copy", "slug": sub.Slug, "parent_id": main.ID}))
		if rr.Code != http.StatusConflict {
			t.Errorf("status: got %d, want 409", rr.Code)
		}
	})

	t.Run("get derives level and path", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.GetCategory(rr, withChiURLParam(
			httptest.NewRequest(http.MethodGet, "/api/categories/"+sub.ID.String(), nil), "id", sub.ID.String()))
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d", rr.Code)
		}
		var v models.CategoryView
		decode(t, rr, &v)
		if v.Level != models.LevelSub {
			t.Errorf("level: got %s, want SUB", v.Level)
		}
		if v.FullPath != main.Name+" > "+sub.Name {
			t.Errorf("full_path: got %q", v.FullPath)
		}
		if len(v.Children) != 1 || v.Children[0].ID != leaf.ID {
			t.Errorf("children: got %+v", v.Children)
		}
	})

	t.Run("leaves of main", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.CategoryLeaves(rr, withChiURLParam(
			httptest.NewRequest(http.MethodGet, "/api/categories/x/leaves", nil), "id", main.ID.String()))
		var leaves []models.CategoryView
		decode(t, rr, &leaves)
		if len(leaves) != 1 || leaves[0].ID != leaf.ID {
			t.Errorf("leaves: got %+v", leaves)
		}
	})

	t.Run("move under own descendant", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.SetCategoryParent(rr, withChiURLParam(
			jsonRequest(t, http.MethodPut, "/api/categories/x/parent", map[string]any{"parent_id": leaf.ID}),
			"id", main.ID.String()))
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("status: got %d, want 422", rr.Code)
		}
	})

	t.Run("rename regenerates slug", func(t *testing.T) {
		name := uniq("Handsets")
		rr := httptest.NewRecorder()
		env.Catalog.UpdateCategory(rr, withChiURLParam(
			jsonRequest(t, http.MethodPatch, "/api/categories/x", map[string]any{"name": name}),
			"id", sub.ID.String()))
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
		}
		var c models.Category
		decode(t, rr, &c)
		if c.Name != name || c.Slug == sub.Slug {
			t.Errorf("renamed: got %+v", c)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.DeleteCategory(rr, withChiURLParam(
			httptest.NewRequest(http.MethodDelete, "/api/categories/x", nil), "id", uuid.NewString()))
		if rr.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rr.Code)
		}
	})
}

func TestProductHandlers(t *testing.T) {
	env := newTestEnv(t)

	main := createCategory(t, env, "Appliances", nil)
	t.Cleanup(func() { cleanCategories(t, env.DB, main.ID) })
	sub := createCategory(t, env, "Kitchen", &main.ID)
	leaf := createCategory(t, env, "Kettles", &sub.ID)

	t.Run("anchor with children is rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.CreateProduct(rr, jsonRequest(t, http.MethodPost, "/api/products", map[string]any{
			"category_id": sub.ID, "name": uniq("Kettle"), "price": "20.00",
		}))
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("status: got %d, want 422", rr.Code)
		}
	})

	rr := httptest.NewRecorder()
	env.Catalog.CreateProduct(rr, jsonRequest(t, http.MethodPost, "/api/products", map[string]any{
		"category_id": leaf.ID, "name": uniq("Kettle"), "price": "20.00", "image_key": "products/kettle.jpg",
		"description": "Boils **1.7 l** in three minutes.",
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create product: got %d: %s", rr.Code, rr.Body.String())
	}
	var created productView
	decode(t, rr, &created)
	if created.Rating != models.DefaultRating || created.MinOrderQuantity != models.DefaultMinOrderQuantity {
		t.Errorf("defaults: got rating %d, moq %d", created.Rating, created.MinOrderQuantity)
	}
	if created.Image == nil || *created.Image != "http://media.test/products/kettle.jpg" {
		t.Errorf("image: got %v", created.Image)
	}
	if !strings.Contains(created.DescriptionHTML, "<strong>1.7 l</strong>") {
		t.Errorf("description_html: got %q", created.DescriptionHTML)
	}

	t.Run("get product", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.GetProduct(rr, withChiURLParam(
			httptest.NewRequest(http.MethodGet, "/api/products/x", nil), "id", created.ID.String()))
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d", rr.Code)
		}
		var p productView
		decode(t, rr, &p)
		if p.Category == nil || p.Category.ID != leaf.ID {
			t.Errorf("category: got %+v", p.Category)
		}
	})

	t.Run("list by category", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.ListProducts(rr, httptest.NewRequest(http.MethodGet,
			"/api/products?category_id="+leaf.ID.String()+"&per_page=5", nil))
		var page productPage
		decode(t, rr, &page)
		if page.Total != 1 || len(page.Items) != 1 || page.PerPage != 5 {
			t.Errorf("page: got total %d, items %d, per_page %d", page.Total, len(page.Items), page.PerPage)
		}
	})

	t.Run("bad filter", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.ListProducts(rr, httptest.NewRequest(http.MethodGet, "/api/products?brand_id=acme", nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})

	t.Run("update moves and clears", func(t *testing.T) {
		other := createCategory(t, env, "Toasters", &sub.ID)
		rr := httptest.NewRecorder()
		env.Catalog.UpdateProduct(rr, withChiURLParam(jsonRequest(t, http.MethodPatch, "/api/products/x", map[string]any{
			"category_id": other.ID, "price": "25.50", "old_price": nil, "brand_id": nil, "is_featured": true,
		}), "id", created.ID.String()))
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
		}
		var p productView
		decode(t, rr, &p)
		if p.CategoryID != other.ID || p.Price.String() != "25.5" || !p.IsFeatured || p.OldPrice.Valid || p.BrandID != nil {
			t.Errorf("updated: got %+v", p.Product)
		}
		if p.Name != created.Name || p.Slug != created.Slug {
			t.Errorf("untouched fields changed: %q %q", p.Name, p.Slug)
		}
	})

	patchTests := []struct {
		name   string
		id     string
		body   map[string]any
		status int
	}{
		{"onto a category with children", created.ID.String(), map[string]any{"category_id": sub.ID}, http.StatusUnprocessableEntity},
		{"onto a missing category", created.ID.String(), map[string]any{"category_id": uuid.New()}, http.StatusNotFound},
		{"zero rating", created.ID.String(), map[string]any{"rating": 0}, http.StatusBadRequest},
		{"negative stock", created.ID.String(), map[string]any{"stock": -1}, http.StatusBadRequest},
		{"bad brand id", created.ID.String(), map[string]any{"brand_id": "acme"}, http.StatusBadRequest},
		{"unknown product", uuid.NewString(), map[string]any{"stock": 3}, http.StatusNotFound},
	}
	for _, tt := range patchTests {
		t.Run("update "+tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			env.Catalog.UpdateProduct(rr, withChiURLParam(
				jsonRequest(t, http.MethodPatch, "/api/products/x", tt.body), "id", tt.id))
			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d: %s", rr.Code, tt.status, rr.Body.String())
			}
		})
	}

	t.Run("category with products cannot be deleted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Catalog.DeleteCategory(rr, withChiURLParam(
			httptest.NewRequest(http.MethodDelete, "/api/categories/x", nil), "id", main.ID.String()))
		if rr.Code != http.StatusConflict {
			t.Errorf("status: got %d, want 409", rr.Code)
		}
	})
}

func TestValueHandlers(t *testing.T) {
	env := newTestEnv(t)

	main := createCategory(t, env, "Computers", nil)
	t.Cleanup(func() { cleanCategories(t, env.DB, main.ID) })
	sub := createCategory(t, env, "Laptops", &main.ID)
	leaf := createCategory(t, env, "Ultrabooks", &sub.ID)

	rr := httptest.NewRecorder()
	env.Catalog.CreateAttribute(rr, jsonRequest(t, http.MethodPost, "/api/attributes",
		map[string]any{"name": uniq("RAM"), "data_type": "number", "unit": "GB"}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create attribute: got %d: %s", rr.Code, rr.Body.String())
	}
	var ram models.Attribute
	decode(t, rr, &ram)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM attributes WHERE id = $1", ram.ID) })

	rr = httptest.NewRecorder()
	env.Catalog.AssignAttribute(rr, withChiURLParam(
		jsonRequest(t, http.MethodPost, "/api/categories/x/attributes",
			map[string]any{"attribute_id": ram.ID, "is_required": true}), "id", leaf.ID.String()))
	if rr.Code != http.StatusCreated {
		t.Fatalf("assign: got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	env.Catalog.CreateProduct(rr, jsonRequest(t, http.MethodPost, "/api/products", map[string]any{
		"category_id": leaf.ID, "name": uniq("Book Pro"), "price": 1299,
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create product: got %d: %s", rr.Code, rr.Body.String())
	}
	var p productView
	decode(t, rr, &p)
	productID := p.ID.String()

	rr = httptest.NewRecorder()
	env.Catalog.GetProduct(rr, withChiURLParam(
		httptest.NewRequest(http.MethodGet, "/api/products/x", nil), "id", productID))
	var fresh productView
	decode(t, rr, &fresh)
	if len(fresh.MissingRequired) != 1 || fresh.MissingRequired[0].AttributeID != ram.ID {
		t.Errorf("missing_required: got %+v, want RAM", fresh.MissingRequired)
	}

	tests := []struct {
		name   string
		call   func(w http.ResponseWriter, r *http.Request)
		req    *http.Request
		status int
	}{
		{
			name: "text into number",
			call: env.Catalog.InsertValue,
			req: withChiURLParams(jsonRequest(t, http.MethodPost, "/x", map[string]any{
				"attribute_id": ram.ID, "value": map[string]any{"type": "text", "value": "16GB"},
			}), "id", productID),
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "update before insert",
			call: env.Catalog.UpdateValue,
			req: withChiURLParams(jsonRequest(t, http.MethodPut, "/x", map[string]any{
				"value": map[string]any{"type": "number", "value": 16},
			}), "id", productID, "attributeID", ram.ID.String()),
			status: http.StatusNotFound,
		},
		{
			name: "duplicate in batch",
			call: env.Catalog.BatchValues,
			req: withChiURLParams(jsonRequest(t, http.MethodPost, "/x", map[string]any{"values": []any{
				map[string]any{"attribute_id": ram.ID, "value": map[string]any{"type": "number", "value": 16}},
				map[string]any{"attribute_id": ram.ID, "value": map[string]any{"type": "number", "value": 32}},
			}}), "id", productID),
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "insert",
			call: env.Catalog.InsertValue,
			req: withChiURLParams(jsonRequest(t, http.MethodPost, "/x", map[string]any{
				"attribute_id": ram.ID, "value": map[string]any{"type": "number", "value": 16},
			}), "id", productID),
			status: http.StatusCreated,
		},
		{
			name: "second insert",
			call: env.Catalog.InsertValue,
			req: withChiURLParams(jsonRequest(t, http.MethodPost, "/x", map[string]any{
				"attribute_id": ram.ID, "value": map[string]any{"type": "number", "value": 16},
			}), "id", productID),
			status: http.StatusConflict,
		},
		{
			name: "update",
			call: env.Catalog.UpdateValue,
			req: withChiURLParams(jsonRequest(t, http.MethodPut, "/x", map[string]any{
				"value": map[string]any{"type": "number", "value": "32"},
			}), "id", productID, "attributeID", ram.ID.String()),
			status: http.StatusOK,
		},
		{
			name: "reorder assignment",
			call: env.Catalog.UpdateAssignment,
			req: withChiURLParams(jsonRequest(t, http.MethodPatch, "/x", map[string]any{
				"sort_order": 3, "is_required": false,
			}), "id", leaf.ID.String(), "attributeID", ram.ID.String()),
			status: http.StatusOK,
		},
		{
			name: "negative sort order",
			call: env.Catalog.UpdateAssignment,
			req: withChiURLParams(jsonRequest(t, http.MethodPatch, "/x", map[string]any{"sort_order": -1}),
				"id", leaf.ID.String(), "attributeID", ram.ID.String()),
			status: http.StatusBadRequest,
		},
		{
			name:   "delete value",
			call:   env.Catalog.DeleteValue,
			req:    withChiURLParams(httptest.NewRequest(http.MethodDelete, "/x", nil), "id", productID, "attributeID", ram.ID.String()),
			status: http.StatusNoContent,
		},
		{
			name:   "delete value again",
			call:   env.Catalog.DeleteValue,
			req:    withChiURLParams(httptest.NewRequest(http.MethodDelete, "/x", nil), "id", productID, "attributeID", ram.ID.String()),
			status: http.StatusNotFound,
		},
		{
			name:   "unassign",
			call:   env.Catalog.UnassignAttribute,
			req:    withChiURLParams(httptest.NewRequest(http.MethodDelete, "/x", nil), "id", leaf.ID.String(), "attributeID", ram.ID.String()),
			status: http.StatusNoContent,
		},
		{
			name: "update after unassign",
			call: env.Catalog.UpdateAssignment,
			req: withChiURLParams(jsonRequest(t, http.MethodPatch, "/x", map[string]any{"sort_order": 1}),
				"id", leaf.ID.String(), "attributeID", ram.ID.String()),
			status: http.StatusNotFound,
		},
	}

	// Order matters: each case builds on the state left by the previous one.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.call(rr, tt.req)
			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d: %s", rr.Code, tt.status, rr.Body.String())
			}
		})
	}
}

func TestBrandHandlers(t *testing.T) {
	env := newTestEnv(t)

	name := uniq("Acme")
	rr := httptest.NewRecorder()
	env.Catalog.CreateBrand(rr, jsonRequest(t, http.MethodPost, "/api/brands",
		map[string]any{"name": name, "logo_key": "brands/acme.png"}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create brand: got %d: %s", rr.Code, rr.Body.String())
	}
	var b brandView
	decode(t, rr, &b)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM brands WHERE id = $1", b.ID) })

	if b.Logo == nil || *b.Logo != "http://media.test/brands/acme.png" {
		t.Errorf("logo: got %v", b.Logo)
	}

	rr = httptest.NewRecorder()
	env.Catalog.CreateBrand(rr, jsonRequest(t, http.MethodPost, "/api/brands", map[string]any{"name": name}))
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate brand: got %d, want 409", rr.Code)
	}
	var body errorBody
	decode(t, rr, &body)
	if body.Error != "duplicate_name" {
		t.Errorf("duplicate brand: got %q, want duplicate_name", body.Error)
	}

	rr = httptest.NewRecorder()
	env.Catalog.CreateBrand(rr, jsonRequest(t, http.MethodPost, "/api/brands", map[string]any{"name": uniq("Zenith")}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create second brand: got %d", rr.Code)
	}
	var other brandView
	decode(t, rr, &other)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM brands WHERE id = $1", other.ID) })

	rr = httptest.NewRecorder()
	env.Catalog.UpdateBrand(rr, withChiURLParam(jsonRequest(t, http.MethodPatch, "/api/brands/x",
		map[string]any{"name": name}), "id", other.ID.String()))
	if rr.Code != http.StatusConflict {
		t.Errorf("rename onto existing brand: got %d, want 409", rr.Code)
	}

	rr = httptest.NewRecorder()
	env.Catalog.UpdateBrand(rr, withChiURLParam(jsonRequest(t, http.MethodPatch, "/api/brands/x",
		map[string]any{"logo_key": "", "is_active": false}), "id", other.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("update brand: got %d: %s", rr.Code, rr.Body.String())
	}
	var updated brandView
	decode(t, rr, &updated)
	if updated.Logo != nil || updated.IsActive || updated.Name != other.Name {
		t.Errorf("updated brand: got %+v", updated)
	}

	rr = httptest.NewRecorder()
	env.Catalog.ListBrochures(rr, withChiURLParam(
		httptest.NewRequest(http.MethodGet, "/api/brands/x/brochures", nil), "id", b.ID.String()))
	if rr.Code != http.StatusOK || rr.Body.String() != "[]\n" {
		t.Errorf("brochures: got %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	env.Catalog.CreateBrochure(rr, withChiURLParam(
		httptest.NewRequest(http.MethodPost, "/api/brands/x/brochures", nil), "id", b.ID.String()))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("upload without storage: got %d, want 503", rr.Code)
	}

	rr = httptest.NewRecorder()
	env.Catalog.DeleteBrand(rr, withChiURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/brands/x", nil), "id", b.ID.String()))
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete brand: got %d, want 204", rr.Code)
	}
}

func TestCacheLogHandler(t *testing.T) {
	env := newTestEnv(t)

	main := createCategory(t, env, "Garden", nil)
	t.Cleanup(func() { cleanCategories(t, env.DB, main.ID) })

	rr := httptest.NewRecorder()
	env.Catalog.CacheLog(rr, httptest.NewRequest(http.MethodGet, "/api/cache-log?limit=500", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var entries []store.CacheLogEntry
	decode(t, rr, &entries)
	found := false
	for _, e := range entries {
		if e.EntityID == main.ID && e.EntityType == "category" && e.Action == "create" {
			found = true
		}
	}
	if !found {
		t.Errorf("no create entry for %s in %d entries", main.ID, len(entries))
	}

	rr = httptest.NewRecorder()
	env.Catalog.CacheLog(rr, httptest.NewRequest(http.MethodGet, "/api/cache-log?limit=0", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("limit=0: got %d, want 400", rr.Code)
	}
}
