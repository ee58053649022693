// Package router sets up all HTTP routes and middleware chains for the
// catalog API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"indomart/internal/handlers"
	"indomart/internal/metrics"
	"indomart/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. A nil searchLimiter leaves search unthrottled.
func New(m *metrics.Metrics, adminTokenHash string, searchLimiter *middleware.RateLimiter,
	catalog *handlers.Catalog, search *handlers.Search) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics(m))
	r.Use(middleware.SecureHeaders)

	// Health check and scrape endpoint, no auth.
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Storefront search dropdown.
	r.Group(func(r chi.Router) {
		if searchLimiter != nil {
			r.Use(searchLimiter.Middleware)
		}
		r.Get("/search", search.Query)
	})

	r.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Get("/categories", catalog.ListCategories)
		r.Get("/categories/tree", catalog.CategoryTree)
		r.Get("/categories/parent-candidates", catalog.ParentCandidates)
		r.Get("/categories/anchors", catalog.ProductAnchors)
		r.Get("/categories/{id}", catalog.GetCategory)
		r.Get("/categories/{id}/leaves", catalog.CategoryLeaves)
		r.Get("/categories/{id}/attributes", catalog.CategoryAttributes)
		r.Get("/attributes", catalog.ListAttributes)
		r.Get("/brands", catalog.ListBrands)
		r.Get("/brands/{id}/brochures", catalog.ListBrochures)
		r.Get("/products", catalog.ListProducts)
		r.Get("/products/{id}", catalog.GetProduct)
		r.Get("/home-banners", catalog.ListBanners)
		r.Get("/latest-launches", catalog.ListLaunches)

		// Admin writes, bearer token required.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminToken(adminTokenHash))

			r.Post("/categories", catalog.CreateCategory)
			r.Patch("/categories/{id}", catalog.UpdateCategory)
			r.Put("/categories/{id}/parent", catalog.SetCategoryParent)
			r.Delete("/categories/{id}", catalog.DeleteCategory)
			r.Post("/categories/{id}/attributes", catalog.AssignAttribute)
			r.Patch("/categories/{id}/attributes/{attributeID}", catalog.UpdateAssignment)
			r.Delete("/categories/{id}/attributes/{attributeID}", catalog.UnassignAttribute)

			r.Post("/attributes", catalog.CreateAttribute)
			r.Delete("/attributes/{id}", catalog.DeleteAttribute)

			r.Post("/brands", catalog.CreateBrand)
			r.Patch("/brands/{id}", catalog.UpdateBrand)
			r.Delete("/brands/{id}", catalog.DeleteBrand)
			r.Post("/brands/{id}/brochures", catalog.CreateBrochure)

			r.Post("/products", catalog.CreateProduct)
			r.Patch("/products/{id}", catalog.UpdateProduct)
			r.Delete("/products/{id}", catalog.DeleteProduct)
			r.Post("/products/{id}/attributes", catalog.InsertValue)
			r.Post("/products/{id}/attributes/batch", catalog.BatchValues)
			r.Put("/products/{id}/attributes/{attributeID}", catalog.UpdateValue)
			r.Delete("/products/{id}/attributes/{attributeID}", catalog.DeleteValue)

			r.Post("/home-banners", catalog.CreateBanner)
			r.Patch("/home-banners/{id}", catalog.UpdateBanner)
			r.Delete("/home-banners/{id}", catalog.DeleteBanner)
			r.Post("/latest-launches", catalog.CreateLaunch)
			r.Patch("/latest-launches/{id}", catalog.UpdateLaunch)
			r.Delete("/latest-launches/{id}", catalog.DeleteLaunch)

			r.Get("/cache-log", catalog.CacheLog)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
