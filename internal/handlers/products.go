// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"indomart/internal/markdown"
	"indomart/internal/models"
	"indomart/internal/store"
)

// maxPerPage caps the page size of product listings.
const maxPerPage = 100

// productView adds the resolved image URL and the rendered description
// to a product.
type productView struct {
	models.Product
	Image           *string `json:"image"`
	DescriptionHTML string  `json:"description_html"`
}

// view builds the response form of p. A description that fails to render
// is logged and left empty.
func (a *Catalog) view(p models.Product) productView {
	html, err := markdown.ToHTML(p.Description)
	if err != nil {
		slog.Warn("render product description", "product", p.ID, "error", err)
	}
	return productView{Product: p, Image: a.fileURL(p.ImageKey), DescriptionHTML: html}
}

type productPage struct {
	Items   []productView `json:"items"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// optionalUUID parses an optional UUID query parameter.
func optionalUUID(q url.Values, name string) (*uuid.UUID, bool) {
	raw := q.Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// positiveInt parses an optional positive integer query parameter.
func positiveInt(q url.Values, name string, def int) (int, bool) {
	raw := q.Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ListProducts returns one page of active products, newest first,
// optionally filtered by category_id and brand_id.
func (a *Catalog) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	active := true
	f := store.ProductFilter{Active: &active}

	var ok bool
	if f.CategoryID, ok = optionalUUID(q, "category_id"); !ok {
		badRequest(w, "category_id must be a UUID.")
		return
	}
	if f.BrandID, ok = optionalUUID(q, "brand_id"); !ok {
		badRequest(w, "brand_id must be a UUID.")
		return
	}
	if f.Page, ok = positiveInt(q, "page", 1); !ok {
		badRequest(w, "page must be a positive integer.")
		return
	}
	if f.PerPage, ok = positiveInt(q, "per_page", 20); !ok {
		badRequest(w, "per_page must be a positive integer.")
		return
	}
	f.PerPage = min(f.PerPage, maxPerPage)

	items, total, err := a.index.ListProducts(r.Context(), f)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	page := productPage{Items: make([]productView, 0, len(items)), Total: total, Page: f.Page, PerPage: f.PerPage}
	for _, p := range items {
		page.Items = append(page.Items, a.view(p))
	}
	writeJSON(w, http.StatusOK, page)
}

// GetProduct returns an active product with its category, brand and
// attribute values.
func (a *Catalog) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	p, err := a.index.Product(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if p == nil || !p.IsActive {
		notFound(w, "product", id.String())
		return
	}
	writeJSON(w, http.StatusOK, a.view(*p))
}

type createProductRequest struct {
	CategoryID       uuid.UUID           `json:"category_id"`
	BrandID          *uuid.UUID          `json:"brand_id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	ImageKey         string              `json:"image_key"`
	Rating           int                 `json:"rating"`
	MinOrderQuantity int                 `json:"min_order_quantity"`
	IsExclusive      bool                `json:"is_exclusive"`
	IsFeatured       bool                `json:"is_featured"`
	Description      string              `json:"description"`
	Price            decimal.Decimal     `json:"price"`
	OldPrice         decimal.NullDecimal `json:"old_price"`
	Stock            int                 `json:"stock"`
	IsActive         *bool               `json:"is_active"`
}

// CreateProduct adds a product to a category without children.
func (a *Catalog) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.CategoryID == uuid.Nil {
		badRequest(w, "category_id is required.")
		return
	}
	if msg := validateProduct(req.Name, req.Slug, req.Description, req.Price, req.OldPrice,
		req.Stock, req.Rating, req.MinOrderQuantity); msg != "" {
		badRequest(w, msg)
		return
	}

	p, err := a.products.Create(r.Context(), &models.Product{
		CategoryID:       req.CategoryID,
		BrandID:          req.BrandID,
		Name:             req.Name,
		Slug:             req.Slug,
		ImageKey:         strings.TrimSpace(req.ImageKey),
		Rating:           req.Rating,
		MinOrderQuantity: req.MinOrderQuantity,
		IsExclusive:      req.IsExclusive,
		IsFeatured:       req.IsFeatured,
		Description:      req.Description,
		Price:            req.Price,
		OldPrice:         req.OldPrice,
		Stock:            req.Stock,
		IsActive:         req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "product", p.ID, "create")
	writeJSON(w, http.StatusCreated, a.view(*p))
}

type updateProductRequest struct {
	CategoryID       *uuid.UUID       `json:"category_id"`
	BrandID          json.RawMessage  `json:"brand_id"`
	Name             *string          `json:"name"`
	Slug             *string          `json:"slug"`
	ImageKey         *string          `json:"image_key"`
	Rating           *int             `json:"rating"`
	MinOrderQuantity *int             `json:"min_order_quantity"`
	IsExclusive      *bool            `json:"is_exclusive"`
	IsFeatured       *bool            `json:"is_featured"`
	Description      *string          `json:"description"`
	Price            *decimal.Decimal `json:"price"`
	OldPrice         json.RawMessage  `json:"old_price"`
	Stock            *int             `json:"stock"`
	IsActive         *bool            `json:"is_active"`
}

// apply copies the fields present in the request onto p. brand_id and
// old_price accept an explicit null to clear them.
func (req *updateProductRequest) apply(p *models.Product) error {
	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	if req.BrandID != nil {
		var id *uuid.UUID
		if err := json.Unmarshal(req.BrandID, &id); err != nil {
			return errors.New("brand_id must be a UUID or null.")
		}
		p.BrandID = id
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		p.Slug = strings.TrimSpace(*req.Slug)
	}
	if req.ImageKey != nil {
		p.ImageKey = strings.TrimSpace(*req.ImageKey)
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	if req.MinOrderQuantity != nil {
		p.MinOrderQuantity = *req.MinOrderQuantity
	}
	if req.IsExclusive != nil {
		p.IsExclusive = *req.IsExclusive
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.OldPrice != nil {
		var op decimal.NullDecimal
		if err := json.Unmarshal(req.OldPrice, &op); err != nil {
			return errors.New("old_price must be a number or null.")
		}
		p.OldPrice = op
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return nil
}

// UpdateProduct changes any subset of a product's fields, including the
// category it is anchored to.
func (a *Catalog) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	p, err := a.products.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if p == nil {
		notFound(w, "product", id.String())
		return
	}
	if err := req.apply(p); err != nil {
		badRequest(w, err.Error())
		return
	}
	if p.Rating == 0 || p.MinOrderQuantity == 0 {
		badRequest(w, "rating and min_order_quantity must be at least 1.")
		return
	}
	if msg := validateProduct(p.Name, p.Slug, p.Description, p.Price, p.OldPrice,
		p.Stock, p.Rating, p.MinOrderQuantity); msg != "" {
		badRequest(w, msg)
		return
	}

	updated, err := a.products.Update(r.Context(), p)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "product", id, "update")
	writeJSON(w, http.StatusOK, a.view(*updated))
}

// DeleteProduct removes a product and its attribute values.
func (a *Catalog) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := a.products.Delete(r.Context(), id); err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "product", id, "delete")
	w.WriteHeader(http.StatusNoContent)
}
