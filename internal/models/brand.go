// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is a manufacturer or label products can be attributed to.
// LogoKey is the object key in the public bucket, empty when there is no logo.
type Brand struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	LogoKey  string    `json:"logo_key,omitempty"`
	IsActive bool      `json:"is_active"`
}

// BrandBrochure binds a downloadable document to one (brand, category) pair.
type BrandBrochure struct {
	ID           uuid.UUID `json:"id"`
	BrandID      uuid.UUID `json:"brand_id"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	FileKey      string    `json:"file_key"`
	Title        *string   `json:"title"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	// URL is filled in by the handler from the storage client.
	URL string `json:"url,omitempty"`
}
