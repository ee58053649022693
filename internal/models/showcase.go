package models

import (
	"time"

	"github.com/google/uuid"
)

// BannerType places a home banner in one storefront slot.
type BannerType string

const (
	BannerHero      BannerType = "HERO"
	BannerExclusive BannerType = "EXCLUSIVE"
	BannerTopBrands BannerType = "TOP_BRANDS"
	BannerOffers    BannerType = "OFFERS"
)

// Valid reports whether t is one of the known slots.
func (t BannerType) Valid() bool {
	switch t {
	case BannerHero, BannerExclusive, BannerTopBrands, BannerOffers:
		return true
	}
	return false
}

// HomeBanner is an image shown on the storefront home page. Banners of one
// type are ordered by SortOrder, newest first on ties.
type HomeBanner struct {
	ID          uuid.UUID  `json:"id"`
	BannerType  BannerType `json:"banner_type"`
	ImageKey    string     `json:"image_key"`
	Title       *string    `json:"title"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LatestLaunch announces a new product line with an image.
type LatestLaunch struct {
	ID          uuid.UUID `json:"id"`
	ImageKey    string    `json:"image_key"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
