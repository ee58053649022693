// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product defaults carried over from the catalog admin.
const (
	DefaultRating           = 5
	DefaultMinOrderQuantity = 1
)

// Product is a catalog item anchored to exactly one childless category.
type Product struct {
	ID               uuid.UUID           `json:"id"`
	CategoryID       uuid.UUID           `json:"category_id"`
	BrandID          *uuid.UUID          `json:"brand_id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	ImageKey         string              `json:"image_key,omitempty"`
	Rating           int                 `json:"rating"`
	MinOrderQuantity int                 `json:"min_order_quantity"`
	IsExclusive      bool                `json:"is_exclusive"`
	IsFeatured       bool                `json:"is_featured"`
	Description      string              `json:"description"`
	Price            decimal.Decimal     `json:"price"`
	OldPrice         decimal.NullDecimal `json:"old_price"`
	Stock            int                 `json:"stock"`
	IsActive         bool                `json:"is_active"`
	CreatedAt        time.Time           `json:"created_at"`

	// Populated by the catalog index when the aggregate is loaded.
	Category   *Category               `json:"category,omitempty"`
	Brand      *Brand                  `json:"brand,omitempty"`
	Attributes []ProductAttributeValue `json:"attributes,omitempty"`

	// MissingRequired lists the required attributes of the category that
	// the product has no value for yet.
	MissingRequired []CategoryAttribute `json:"missing_required,omitempty"`
}
