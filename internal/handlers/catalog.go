// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the catalog API.
// Handlers are grouped by concern (catalog, search) and receive their
// dependencies through the handler struct.
package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/google/uuid"

	"indomart/internal/cache"
	"indomart/internal/metrics"
	"indomart/internal/search"
	"indomart/internal/storage"
	"indomart/internal/store"
)

// Catalog groups the category, attribute, brand, product and storefront
// showcase handlers.
type Catalog struct {
	categories  *store.CategoryStore
	attributes  *store.AttributeStore
	assignments *store.CategoryAttributeStore
	values      *store.ValueStore
	brands      *store.BrandStore
	brochures   *store.BrochureStore
	products    *store.ProductStore
	banners     *store.BannerStore
	launches    *store.LaunchStore
	index       *store.CatalogIndex
	cacheLog    *store.CacheLogStore

	searchCache   *cache.SearchCache
	storageClient *storage.Client
	urls          search.URLBuilder
	metrics       *metrics.Metrics
}

// NewCatalog creates the catalog handlers on db. searchCache and
// storageClient may be nil when Valkey or S3 are not configured; urls
// resolves public file keys and m may be nil in tests.
func NewCatalog(db *sql.DB, searchCache *cache.SearchCache, storageClient *storage.Client, urls search.URLBuilder, m *metrics.Metrics) *Catalog {
	return &Catalog{
		categories:    store.NewCategoryStore(db),
		attributes:    store.NewAttributeStore(db),
		assignments:   store.NewCategoryAttributeStore(db),
		values:        store.NewValueStore(db),
		brands:        store.NewBrandStore(db),
		brochures:     store.NewBrochureStore(db),
		products:      store.NewProductStore(db),
		banners:       store.NewBannerStore(db),
		launches:      store.NewLaunchStore(db),
		index:         store.NewCatalogIndex(db),
		cacheLog:      store.NewCacheLogStore(db),
		searchCache:   searchCache,
		storageClient: storageClient,
		urls:          urls,
		metrics:       m,
	}
}

// invalidateSearch drops every cached search result after a write that can
// change search output, and records the invalidation.
func (a *Catalog) invalidateSearch(ctx context.Context, entityType string, id uuid.UUID, action string) {
	a.searchCache.InvalidateAll(ctx)
	a.cacheLog.Log(ctx, entityType, id, action)
}

// fileURL resolves a public file key, or nil when there is none.
func (a *Catalog) fileURL(key string) *string {
	if key == "" || a.urls == nil {
		return nil
	}
	u := a.urls.FileURL(key)
	if u == "" {
		return nil
	}
	return &u
}

// CacheLog returns the most recent search cache invalidations, newest
// first. The optional "limit" defaults to 50 and is capped at 500.
func (a *Catalog) CacheLog(w http.ResponseWriter, r *http.Request) {
	limit, ok := positiveInt(r.URL.Query(), "limit", 50)
	if !ok {
		badRequest(w, "limit must be a positive integer.")
		return
	}
	entries, err := a.cacheLog.RecentEntries(r.Context(), min(limit, 500))
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if entries == nil {
		entries = []store.CacheLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
