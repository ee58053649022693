// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search resolves a free-text storefront query into grouped
// product, brand and category matches. Category matches are classified
// against a tree snapshot and MAIN/SUB matches carry the slugs of their
// leaf descendants so a dropdown can link straight to a leaf listing.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"indomart/internal/catalog"
	"indomart/internal/metrics"
	"indomart/internal/models"
)

const (
	DefaultProductsLimit   = 8
	DefaultCategoriesLimit = 6
	DefaultBrandsLimit     = 6

	// MaxLimit caps every per-group limit a caller may ask for.
	MaxLimit = 50

	// LeafSlugCap bounds leaf_slugs on a single category hit.
	LeafSlugCap = 12

	// categoryFetchFactor over-fetches category matches so that each level
	// bucket can still be filled after classification.
	categoryFetchFactor = 3
)

// ErrUnavailable is returned when every search branch failed.
var ErrUnavailable = errors.New("search: catalog unavailable")

// Index is the read side of the catalog the resolver queries.
type Index interface {
	Categories(ctx context.Context) ([]models.Category, error)
	SearchProducts(ctx context.Context, q string, limit int) ([]models.Product, error)
	SearchBrands(ctx context.Context, q string, limit int) ([]models.Brand, error)
	SearchCategories(ctx context.Context, q string, limit int) ([]models.Category, error)
}

// URLBuilder turns a stored file key into an absolute URL.
type URLBuilder interface {
	FileURL(key string) string
}

// Cache stores encoded results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
}

// Limits bounds each result group.
type Limits struct {
	Products   int
	Categories int
	Brands     int
}

// DefaultLimits returns 8 products, 6 categories per level and 6 brands.
func DefaultLimits() Limits {
	return Limits{
		Products:   DefaultProductsLimit,
		Categories: DefaultCategoriesLimit,
		Brands:     DefaultBrandsLimit,
	}
}

// Normalize replaces unset limits with their defaults and clamps the rest
// to MaxLimit.
func (l Limits) Normalize() Limits {
	clamp := func(v, def int) int {
		switch {
		case v <= 0:
			return def
		case v > MaxLimit:
			return MaxLimit
		}
		return v
	}
	return Limits{
		Products:   clamp(l.Products, DefaultProductsLimit),
		Categories: clamp(l.Categories, DefaultCategoriesLimit),
		Brands:     clamp(l.Brands, DefaultBrandsLimit),
	}
}

// BrandHit is the projection of a brand.
type BrandHit struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Logo *string   `json:"logo"`
}

// CategoryRef is the short form of a product's leaf category.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ProductHit is the projection of a product.
type ProductHit struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Image        *string          `json:"image"`
	Price        decimal.Decimal  `json:"price"`
	OldPrice     *decimal.Decimal `json:"old_price"`
	Brand        *BrandHit        `json:"brand"`
	LeafCategory *CategoryRef     `json:"leaf_category"`
}

// CategoryHit is the projection of a category. LeafSlugs is nil, and
// omitted from JSON, for LEAF hits.
type CategoryHit struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Level     models.Level `json:"category_type"`
	FullPath  string       `json:"full_path"`
	LeafSlugs []string     `json:"leaf_slugs,omitzero"`
}

// CategoryGroups buckets category hits by level.
type CategoryGroups struct {
	Main []CategoryHit `json:"main"`
	Sub  []CategoryHit `json:"sub"`
	Leaf []CategoryHit `json:"leaf"`
}

// Result is the response to one query.
type Result struct {
	Query      string         `json:"query"`
	Products   []ProductHit   `json:"products"`
	Brands     []BrandHit     `json:"brands"`
	Categories CategoryGroups `json:"categories"`

	// partial is set when at least one branch failed; such results are
	// not cached.
	partial bool
}

// Partial reports whether some group was dropped because its branch failed.
func (r *Result) Partial() bool {
	return r.partial
}

func emptyGroups() CategoryGroups {
	return CategoryGroups{Main: []CategoryHit{}, Sub: []CategoryHit{}, Leaf: []CategoryHit{}}
}

// EmptyResult returns the canonical result for an empty query.
func EmptyResult() *Result {
	return &Result{
		Query:      "",
		Products:   []ProductHit{},
		Brands:     []BrandHit{},
		Categories: emptyGroups(),
	}
}

// CacheKey identifies a normalized query for caching.
func CacheKey(q string, l Limits) string {
	return fmt.Sprintf("%d:%d:%d:%s", l.Products, l.Categories, l.Brands, strings.ToLower(q))
}

// Resolver answers search queries against an Index.
type Resolver struct {
	index   Index
	urls    URLBuilder
	cache   Cache
	metrics *metrics.Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache stores complete results in c.
func WithCache(c Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithMetrics records timings and branch failures into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver returns a Resolver reading from index. urls may be nil, in
// which case every image and logo is null.
func NewResolver(index Index, urls URLBuilder, opts ...Option) *Resolver {
	r := &Resolver{index: index, urls: urls}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs q against products, brands and categories concurrently.
// A failing branch leaves its group empty; only when all three fail is an
// error returned.
func (r *Resolver) Resolve(ctx context.Context, q string, limits Limits) (*Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return EmptyResult(), nil
	}
	limits = limits.Normalize()

	key := CacheKey(q, limits)
	if r.cache != nil {
		if b, ok := r.cache.Get(ctx, key); ok {
			var cached Result
			if err := json.Unmarshal(b, &cached); err == nil {
				r.countCache("hit")
				cached.Query = q
				return &cached, nil
			}
		}
		r.countCache("miss")
	}

	start := time.Now()
	res, err := r.resolve(ctx, q, limits)
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}

	if r.cache != nil && !res.partial {
		if b, err := json.Marshal(res); err == nil {
			r.cache.Set(ctx, key, b)
		}
	}
	return res, nil
}

func (r *Resolver) countCache(result string) {
	if r.metrics != nil {
		r.metrics.SearchCacheRequests.WithLabelValues(result).Inc()
	}
}

func (r *Resolver) resolve(ctx context.Context, q string, limits Limits) (*Result, error) {
	res := EmptyResult()
	res.Query = q

	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	branch := func(name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				failed.Add(1)
				slog.Warn("search branch failed", "branch", name, "query", q, "error", err)
				if r.metrics != nil {
					r.metrics.SearchBranchFailures.WithLabelValues(name).Inc()
				}
			}
			return nil
		})
	}

	branch("products", func() error {
		hits, err := r.products(ctx, q, limits.Products)
		if err == nil {
			res.Products = hits
		}
		return err
	})
	branch("brands", func() error {
		hits, err := r.brands(ctx, q, limits.Brands)
		if err == nil {
			res.Brands = hits
		}
		return err
	})
	branch("categories", func() error {
		groups, err := r.categories(ctx, q, limits.Categories)
		if err == nil {
			res.Categories = groups
		}
		return err
	})
	_ = g.Wait()

	switch n := failed.Load(); {
	case n == 3:
		return nil, ErrUnavailable
	case n > 0:
		res.partial = true
	}
	return res, nil
}

func (r *Resolver) fileURL(key string) *string {
	if key == "" || r.urls == nil {
		return nil
	}
	u := r.urls.FileURL(key)
	if u == "" {
		return nil
	}
	return &u
}

func (r *Resolver) brandHit(b models.Brand) BrandHit {
	return BrandHit{ID: b.ID, Name: b.Name, Logo: r.fileURL(b.LogoKey)}
}

func (r *Resolver) products(ctx context.Context, q string, limit int) ([]ProductHit, error) {
	items, err := r.index.SearchProducts(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	hits := make([]ProductHit, 0, min(len(items), limit))
	for _, p := range items {
		if len(hits) == limit {
			break
		}
		hit := ProductHit{
			ID:    p.ID,
			Name:  p.Name,
			Slug:  p.Slug,
			Image: r.fileURL(p.ImageKey),
			Price: p.Price,
		}
		if p.OldPrice.Valid && !p.OldPrice.Decimal.IsZero() {
			old := p.OldPrice.Decimal
			hit.OldPrice = &old
		}
		if p.Brand != nil {
			b := r.brandHit(*p.Brand)
			hit.Brand = &b
		}
		if p.Category != nil {
			hit.LeafCategory = &CategoryRef{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (r *Resolver) brands(ctx context.Context, q string, limit int) ([]BrandHit, error) {
	items, err := r.index.SearchBrands(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	hits := make([]BrandHit, 0, min(len(items), limit))
	for _, b := range items {
		if len(hits) == limit {
			break
		}
		hits = append(hits, r.brandHit(b))
	}
	return hits, nil
}

func (r *Resolver) categories(ctx context.Context, q string, limit int) (CategoryGroups, error) {
	groups := emptyGroups()

	matches, err := r.index.SearchCategories(ctx, q, limit*categoryFetchFactor)
	if err != nil {
		return groups, err
	}
	if len(matches) == 0 {
		return groups, nil
	}

	all, err := r.index.Categories(ctx)
	if err != nil {
		return groups, fmt.Errorf("load category snapshot: %w", err)
	}
	tree := catalog.NewTree(all)
	active := func(c models.Category) bool { return c.IsActive }

	for _, c := range matches {
		level, err := tree.Classify(c.ID)
		if err != nil {
			slog.Warn("search skipped category", "category", c.ID, "slug", c.Slug, "error", err)
			continue
		}

		var bucket *[]CategoryHit
		switch level {
		case models.LevelMain:
			bucket = &groups.Main
		case models.LevelSub:
			bucket = &groups.Sub
		default:
			bucket = &groups.Leaf
		}
		if len(*bucket) >= limit {
			continue
		}

		hit := CategoryHit{
			ID:       c.ID,
			Name:     c.Name,
			Slug:     c.Slug,
			Level:    level,
			FullPath: tree.FullPath(c.ID),
		}
		if level != models.LevelLeaf {
			leaves, err := tree.LeafDescendants(c.ID, LeafSlugCap, active)
			if err != nil {
				slog.Warn("search skipped category", "category", c.ID, "slug", c.Slug, "error", err)
				continue
			}
			hit.LeafSlugs = make([]string, 0, len(leaves))
			for _, l := range leaves {
				hit.LeafSlugs = append(hit.LeafSlugs, l.Slug)
			}
		}
		*bucket = append(*bucket, hit)
	}
	return groups, nil
}
