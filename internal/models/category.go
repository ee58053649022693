// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Level is the position of a category in the fixed three-level tree.
// It is always derived from the parent chain and never stored.
type Level string

const (
	LevelMain Level = "MAIN"
	LevelSub  Level = "SUB"
	LevelLeaf Level = "LEAF"
)

// MaxDepth is the deepest allowed position (number of hops to the root).
const MaxDepth = 2

// LevelForDepth maps a hop count to its level. ok is false past MaxDepth.
func LevelForDepth(depth int) (Level, bool) {
	switch depth {
	case 0:
		return LevelMain, true
	case 1:
		return LevelSub, true
	case 2:
		return LevelLeaf, true
	}
	return "", false
}

// Label returns the admin-facing name of the level.
func (l Level) Label() string {
	switch l {
	case LevelMain:
		return "Main Category"
	case LevelSub:
		return "Sub Category"
	case LevelLeaf:
		return "Sub Name"
	}
	return ""
}

// Category is a node in the catalog tree, capped at MAIN > SUB > LEAF.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryView is a category enriched with values derived from the tree.
type CategoryView struct {
	Category
	Level    Level          `json:"category_type"`
	FullPath string         `json:"full_path"`
	Children []CategoryView `json:"children,omitempty"`
}
