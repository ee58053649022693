package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"indomart/internal/models"
	"indomart/internal/storage"
)

// maxImageSize is the maximum banner or launch image upload size (10 MB).
const maxImageSize = 10 << 20

// allowedImageTypes defines the sniffed MIME types accepted for storefront
// images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type bannerView struct {
	models.HomeBanner
	Image *string `json:"image"`
}

type launchView struct {
	models.LatestLaunch
	Image *string `json:"image"`
}

// imageUpload is a sniffed image waiting to be stored.
type imageUpload struct {
	file        multipart.File
	filename    string
	contentType string
	size        int64
}

// readImageForm parses a multipart form carrying an image in "file". It
// writes the error response itself and reports false on failure. Callers
// must close the returned file.
func (a *Catalog) readImageForm(w http.ResponseWriter, r *http.Request) (*imageUpload, bool) {
	if a.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "Object storage is not configured.", "")
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		badRequest(w, "File too large or invalid form (max 10 MB).")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "No file provided.")
		return nil, false
	}

	// Trust the bytes, not the client's Content-Type.
	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		file.Close()
		badRequest(w, "Failed to read file.")
		return nil, false
	}
	contentType := http.DetectContentType(sniff[:n])
	if !allowedImageTypes[contentType] {
		file.Close()
		badRequest(w, fmt.Sprintf("File type %q is not allowed.", contentType))
		return nil, false
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		respondErr(w, r, a.metrics, fmt.Errorf("rewind upload: %w", err))
		return nil, false
	}
	return &imageUpload{file: file, filename: header.Filename, contentType: contentType, size: header.Size}, true
}

// storeImage uploads img under dir and returns its key.
func (a *Catalog) storeImage(ctx context.Context, dir string, img *imageUpload) (string, error) {
	key := storage.ObjectKey(dir, img.filename)
	if err := a.storageClient.PutPublic(ctx, key, img.contentType, img.file, img.size); err != nil {
		return "", err
	}
	return key, nil
}

// dropImage removes an image that no row references any more. Failures are
// only logged.
func (a *Catalog) dropImage(ctx context.Context, key string) {
	if a.storageClient == nil || key == "" {
		return
	}
	if err := a.storageClient.DeletePublic(context.WithoutCancel(ctx), key); err != nil {
		slog.Warn("remove storefront image", "key", key, "error", err)
	}
}

// formBool reads an optional boolean form field, defaulting to def.
func formBool(r *http.Request, name string, def bool) (bool, bool) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseBool(raw)
	return v, err == nil
}

// ListBanners returns the active home banners, optionally of one type.
func (a *Catalog) ListBanners(w http.ResponseWriter, r *http.Request) {
	bt := models.BannerType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("banner_type"))))
	if bt != "" && !bt.Valid() {
		badRequest(w, "banner_type must be one of HERO, EXCLUSIVE, TOP_BRANDS, OFFERS.")
		return
	}
	items, err := a.banners.List(r.Context(), true, bt)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	out := make([]bannerView, 0, len(items))
	for _, b := range items {
		out = append(out, bannerView{HomeBanner: b, Image: a.fileURL(b.ImageKey)})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateBanner uploads a banner image. The multipart form carries
// "banner_type", optional "title", "description", "sort_order" and
// "is_active", and the image in "file".
func (a *Catalog) CreateBanner(w http.ResponseWriter, r *http.Request) {
	img, ok := a.readImageForm(w, r)
	if !ok {
		return
	}
	defer img.file.Close()
	defer r.MultipartForm.RemoveAll()

	b := models.HomeBanner{
		BannerType:  models.BannerType(strings.ToUpper(strings.TrimSpace(r.FormValue("banner_type")))),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if !b.BannerType.Valid() {
		badRequest(w, "banner_type must be one of HERO, EXCLUSIVE, TOP_BRANDS, OFFERS.")
		return
	}
	if t := strings.TrimSpace(r.FormValue("title")); t != "" {
		b.Title = &t
	}
	if raw := strings.TrimSpace(r.FormValue("sort_order")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, "sort_order must be a non-negative integer.")
			return
		}
		b.SortOrder = n
	}
	if b.IsActive, ok = formBool(r, "is_active", true); !ok {
		badRequest(w, "is_active must be a boolean.")
		return
	}
	if msg := validateShowcase(b.Title, b.Description); msg != "" {
		badRequest(w, msg)
		return
	}

	key, err := a.storeImage(r.Context(), "home_banners", img)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	b.ImageKey = key
	created, err := a.banners.Create(r.Context(), &b)
	if err != nil {
		a.dropImage(r.Context(), key)
		respondErr(w, r, a.metrics, err)
		return
	}

	slog.Info("banner uploaded", "id", created.ID, "type", created.BannerType, "key", key, "size", img.size)
	writeJSON(w, http.StatusCreated, bannerView{HomeBanner: *created, Image: a.fileURL(key)})
}

type updateBannerRequest struct {
	BannerType  *models.BannerType `json:"banner_type"`
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	SortOrder   *int               `json:"sort_order"`
	IsActive    *bool              `json:"is_active"`
}

// UpdateBanner edits the fields of a banner. An empty title clears it; the
// image is replaced by deleting and re-uploading.
func (a *Catalog) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req updateBannerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	b, err := a.banners.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if b == nil {
		notFound(w, "banner", id.String())
		return
	}

	if req.BannerType != nil {
		bt := models.BannerType(strings.ToUpper(string(*req.BannerType)))
		if !bt.Valid() {
			badRequest(w, "banner_type must be one of HERO, EXCLUSIVE, TOP_BRANDS, OFFERS.")
			return
		}
		b.BannerType = bt
	}
	if req.Title != nil {
		b.Title = nil
		if t := strings.TrimSpace(*req.Title); t != "" {
			b.Title = &t
		}
	}
	if req.Description != nil {
		b.Description = strings.TrimSpace(*req.Description)
	}
	if req.SortOrder != nil {
		if *req.SortOrder < 0 {
			badRequest(w, "sort_order must be a non-negative integer.")
			return
		}
		b.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}
	if msg := validateShowcase(b.Title, b.Description); msg != "" {
		badRequest(w, msg)
		return
	}

	updated, err := a.banners.Update(r.Context(), b)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusOK, bannerView{HomeBanner: *updated, Image: a.fileURL(updated.ImageKey)})
}

// DeleteBanner removes a banner and its image.
func (a *Catalog) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	b, err := a.banners.Delete(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.dropImage(r.Context(), b.ImageKey)
	w.WriteHeader(http.StatusNoContent)
}

// ListLaunches returns the active latest launches, newest first.
func (a *Catalog) ListLaunches(w http.ResponseWriter, r *http.Request) {
	items, err := a.launches.List(r.Context(), true)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	out := make([]launchView, 0, len(items))
	for _, l := range items {
		out = append(out, launchView{LatestLaunch: l, Image: a.fileURL(l.ImageKey)})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateLaunch uploads a launch announcement. The multipart form carries
// "title", optional "description" and "is_active", and the image in "file".
func (a *Catalog) CreateLaunch(w http.ResponseWriter, r *http.Request) {
	img, ok := a.readImageForm(w, r)
	if !ok {
		return
	}
	defer img.file.Close()
	defer r.MultipartForm.RemoveAll()

	l := models.LatestLaunch{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if msg := validateName("Title", l.Title); msg != "" {
		badRequest(w, msg)
		return
	}
	if l.IsActive, ok = formBool(r, "is_active", true); !ok {
		badRequest(w, "is_active must be a boolean.")
		return
	}
	if msg := validateShowcase(nil, l.Description); msg != "" {
		badRequest(w, msg)
		return
	}

	key, err := a.storeImage(r.Context(), "latest_launches", img)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	l.ImageKey = key
	created, err := a.launches.Create(r.Context(), &l)
	if err != nil {
		a.dropImage(r.Context(), key)
		respondErr(w, r, a.metrics, err)
		return
	}

	slog.Info("launch uploaded", "id", created.ID, "key", key, "size", img.size)
	writeJSON(w, http.StatusCreated, launchView{LatestLaunch: *created, Image: a.fileURL(key)})
}

type updateLaunchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateLaunch edits the title, description or active flag of a launch.
func (a *Catalog) UpdateLaunch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req updateLaunchRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	l, err := a.launches.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if l == nil {
		notFound(w, "launch", id.String())
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if msg := validateName("Title", title); msg != "" {
			badRequest(w, msg)
			return
		}
		l.Title = title
	}
	if req.Description != nil {
		l.Description = strings.TrimSpace(*req.Description)
		if msg := validateShowcase(nil, l.Description); msg != "" {
			badRequest(w, msg)
			return
		}
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}

	updated, err := a.launches.Update(r.Context(), l)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusOK, launchView{LatestLaunch: *updated, Image: a.fileURL(updated.ImageKey)})
}

// DeleteLaunch removes a launch and its image.
func (a *Catalog) DeleteLaunch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	l, err := a.launches.Delete(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.dropImage(r.Context(), l.ImageKey)
	w.WriteHeader(http.StatusNoContent)
}
