// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"indomart/internal/models"
	"indomart/internal/storage"
)

const (
	// maxBrochureSize is the maximum brochure upload size (20 MB).
	maxBrochureSize = 20 << 20

	// presignExpiry is how long a brochure download link is valid.
	presignExpiry = 1 * time.Hour
)

// allowedBrochureTypes defines MIME types accepted for brochure upload.
var allowedBrochureTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// brandView adds the resolved logo URL to a brand.
type brandView struct {
	models.Brand
	Logo *string `json:"logo"`
}

// ListBrands returns the active brands by name.
func (a *Catalog) ListBrands(w http.ResponseWriter, r *http.Request) {
	items, err := a.brands.List(r.Context(), true)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	out := make([]brandView, 0, len(items))
	for _, b := range items {
		out = append(out, brandView{Brand: b, Logo: a.fileURL(b.LogoKey)})
	}
	writeJSON(w, http.StatusOK, out)
}

type createBrandRequest struct {
	Name     string `json:"name"`
	LogoKey  string `json:"logo_key"`
	IsActive *bool  `json:"is_active"`
}

// CreateBrand adds a brand. Names are unique.
func (a *Catalog) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req createBrandRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if msg := validateName("Name", req.Name); msg != "" {
		badRequest(w, msg)
		return
	}

	b, err := a.brands.Create(r.Context(), &models.Brand{
		Name:     req.Name,
		LogoKey:  strings.TrimSpace(req.LogoKey),
		IsActive: req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "brand", b.ID, "create")
	writeJSON(w, http.StatusCreated, brandView{Brand: *b, Logo: a.fileURL(b.LogoKey)})
}

type updateBrandRequest struct {
	Name     *string `json:"name"`
	LogoKey  *string `json:"logo_key"`
	IsActive *bool   `json:"is_active"`
}

// UpdateBrand changes the name, logo or active flag of a brand.
func (a *Catalog) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req updateBrandRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	b, err := a.brands.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if b == nil {
		notFound(w, "brand", id.String())
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if msg := validateName("Name", name); msg != "" {
			badRequest(w, msg)
			return
		}
		b.Name = name
	}
	if req.LogoKey != nil {
		b.LogoKey = strings.TrimSpace(*req.LogoKey)
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}

	updated, err := a.brands.Update(r.Context(), b)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "brand", id, "update")
	writeJSON(w, http.StatusOK, brandView{Brand: *updated, Logo: a.fileURL(updated.LogoKey)})
}

// DeleteBrand removes a brand; its products lose their brand.
func (a *Catalog) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := a.brands.Delete(r.Context(), id); err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "brand", id, "delete")
	w.WriteHeader(http.StatusNoContent)
}

// brochureURL returns a presigned link to a private brochure, falling back
// to the public URL builder when object storage is not configured.
func (a *Catalog) brochureURL(ctx context.Context, key string) string {
	if a.storageClient != nil {
		u, err := a.storageClient.BrochureURL(ctx, key, presignExpiry)
		if err == nil {
			return u
		}
		slog.Warn("presign brochure failed", "key", key, "error", err)
	}
	if u := a.fileURL(key); u != nil {
		return *u
	}
	return ""
}

// ListBrochures returns the active brochures of a brand with download links.
func (a *Catalog) ListBrochures(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	b, err := a.brands.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if b == nil {
		notFound(w, "brand", id.String())
		return
	}

	items, err := a.brochures.ListForBrand(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if items == nil {
		items = []models.BrandBrochure{}
	}
	for i := range items {
		items[i].URL = a.brochureURL(r.Context(), items[i].FileKey)
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateBrochure uploads a brochure file for one (brand, category) pair.
// The multipart form carries "category_id", an optional "title" and the
// "file" itself.
func (a *Catalog) CreateBrochure(w http.ResponseWriter, r *http.Request) {
	brandID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if a.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "Object storage is not configured.", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBrochureSize+1<<20)
	if err := r.ParseMultipartForm(maxBrochureSize); err != nil {
		badRequest(w, "File too large or invalid form (max 20 MB).")
		return
	}
	defer r.MultipartForm.RemoveAll()

	categoryID, err := uuid.Parse(r.FormValue("category_id"))
	if err != nil {
		badRequest(w, "category_id must be a UUID.")
		return
	}
	var title *string
	if t := strings.TrimSpace(r.FormValue("title")); t != "" {
		if msg := validateName("Title", t); msg != "" {
			badRequest(w, msg)
			return
		}
		title = &t
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "No file provided.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedBrochureTypes[contentType] {
		badRequest(w, "File type not allowed: "+contentType)
		return
	}

	key := storage.ObjectKey("brochures", header.Filename)
	if err := a.storageClient.PutBrochure(r.Context(), key, contentType, file, header.Size); err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}

	brochure, err := a.brochures.Create(r.Context(), &models.BrandBrochure{
		BrandID:    brandID,
		CategoryID: categoryID,
		FileKey:    key,
		Title:      title,
		IsActive:   true,
	})
	if err != nil {
		if derr := a.storageClient.DeleteBrochure(context.WithoutCancel(r.Context()), key); derr != nil {
			slog.Warn("remove orphaned brochure", "key", key, "error", derr)
		}
		respondErr(w, r, a.metrics, err)
		return
	}
	brochure.URL = a.brochureURL(r.Context(), key)

	slog.Info("brochure uploaded", "brand", brandID, "category", categoryID, "key", key, "size", header.Size)
	writeJSON(w, http.StatusCreated, brochure)
}
