package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"indomart/internal/catalog"
	"indomart/internal/models"
)

// BannerStore manages home page banners.
type BannerStore struct {
	db *sql.DB
}

// NewBannerStore returns a new BannerStore.
func NewBannerStore(db *sql.DB) *BannerStore {
	return &BannerStore{db: db}
}

const bannerColumns = `id, banner_type, image_key, title, description, is_active, sort_order, created_at, updated_at`

func scanBanner(scanner interface{ Scan(...any) error }) (*models.HomeBanner, error) {
	var b models.HomeBanner
	err := scanner.Scan(&b.ID, &b.BannerType, &b.ImageKey, &b.Title, &b.Description,
		&b.IsActive, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a banner and returns it with its generated fields.
func (s *BannerStore) Create(ctx context.Context, b *models.HomeBanner) (*models.HomeBanner, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO home_banners (banner_type, image_key, title, description, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+bannerColumns,
		b.BannerType, b.ImageKey, b.Title, b.Description, b.IsActive, b.SortOrder,
	)
	result, err := scanBanner(row)
	if err != nil {
		return nil, fmt.Errorf("create banner: %w", err)
	}
	return result, nil
}

// List returns banners by type, position and then newest first. An empty
// bannerType returns every slot.
func (s *BannerStore) List(ctx context.Context, activeOnly bool, bannerType models.BannerType) ([]models.HomeBanner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bannerColumns+` FROM home_banners
		WHERE (is_active OR NOT $1) AND ($2 = '' OR banner_type = $2)
		ORDER BY banner_type, sort_order, created_at DESC
	`, activeOnly, string(bannerType))
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	var items []models.HomeBanner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// FindByID returns a banner, or nil if not found.
func (s *BannerStore) FindByID(ctx context.Context, id uuid.UUID) (*models.HomeBanner, error) {
	b, err := scanBanner(s.db.QueryRowContext(ctx, `SELECT `+bannerColumns+` FROM home_banners WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find banner by id: %w", err)
	}
	return b, nil
}

// Update writes the editable columns of b and bumps updated_at.
func (s *BannerStore) Update(ctx context.Context, b *models.HomeBanner) (*models.HomeBanner, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE home_banners
		SET banner_type = $1, title = $2, description = $3, is_active = $4, sort_order = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+bannerColumns,
		b.BannerType, b.Title, b.Description, b.IsActive, b.SortOrder, b.ID,
	)
	result, err := scanBanner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, b.ID.String(), "banner does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("update banner: %w", err)
	}
	return result, nil
}

// Delete removes a banner and returns the deleted row so the caller can
// drop its image.
func (s *BannerStore) Delete(ctx context.Context, id uuid.UUID) (*models.HomeBanner, error) {
	b, err := scanBanner(s.db.QueryRowContext(ctx, `DELETE FROM home_banners WHERE id = $1 RETURNING `+bannerColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, id.String(), "banner does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("delete banner: %w", err)
	}
	return b, nil
}

// LaunchStore manages latest-launch announcements.
type LaunchStore struct {
	db *sql.DB
}

// NewLaunchStore returns a new LaunchStore.
func NewLaunchStore(db *sql.DB) *LaunchStore {
	return &LaunchStore{db: db}
}

const launchColumns = `id, image_key, title, description, is_active, created_at, updated_at`

func scanLaunch(scanner interface{ Scan(...any) error }) (*models.LatestLaunch, error) {
	var l models.LatestLaunch
	err := scanner.Scan(&l.ID, &l.ImageKey, &l.Title, &l.Description, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LaunchStore) Create(ctx context.Context, l *models.LatestLaunch) (*models.LatestLaunch, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO latest_launches (image_key, title, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+launchColumns,
		l.ImageKey, l.Title, l.Description, l.IsActive,
	)
	result, err := scanLaunch(row)
	if err != nil {
		return nil, fmt.Errorf("create launch: %w", err)
	}
	return result, nil
}

// List returns launches newest first.
func (s *LaunchStore) List(ctx context.Context, activeOnly bool) ([]models.LatestLaunch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+launchColumns+` FROM latest_launches
		WHERE is_active OR NOT $1
		ORDER BY created_at DESC, id
	`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list launches: %w", err)
	}
	defer rows.Close()

	var items []models.LatestLaunch
	for rows.Next() {
		l, err := scanLaunch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

func (s *LaunchStore) FindByID(ctx context.Context, id uuid.UUID) (*models.LatestLaunch, error) {
	l, err := scanLaunch(s.db.QueryRowContext(ctx, `SELECT `+launchColumns+` FROM latest_launches WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find launch by id: %w", err)
	}
	return l, nil
}

func (s *LaunchStore) Update(ctx context.Context, l *models.LatestLaunch) (*models.LatestLaunch, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE latest_launches
		SET title = $1, description = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+launchColumns,
		l.Title, l.Description, l.IsActive, l.ID,
	)
	result, err := scanLaunch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, l.ID.String(), "launch does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("update launch: %w", err)
	}
	return result, nil
}

// Delete removes a launch and returns the deleted row.
func (s *LaunchStore) Delete(ctx context.Context, id uuid.UUID) (*models.LatestLaunch, error) {
	l, err := scanLaunch(s.db.QueryRowContext(ctx, `DELETE FROM latest_launches WHERE id = $1 RETURNING `+launchColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, id.String(), "launch does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("delete launch: %w", err)
	}
	return l, nil
}
