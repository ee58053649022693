// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"indomart/internal/catalog"
	"indomart/internal/models"
)

// views converts categories to views, skipping nodes the tree cannot classify.
func views(tree *catalog.Tree, cats []models.Category) []models.CategoryView {
	out := make([]models.CategoryView, 0, len(cats))
	for _, c := range cats {
		if v, err := tree.View(c.ID); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// ListCategories returns every category in display order with its derived
// level and full path.
func (a *Catalog) ListCategories(w http.ResponseWriter, r *http.Request) {
	tree, err := a.categories.Tree(r.Context())
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	items := tree.Flat()
	if items == nil {
		items = []models.CategoryView{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CategoryTree returns the roots with their children nested.
func (a *Catalog) CategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.categories.Tree(r.Context())
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusOK, tree.Nested())
}

// ParentCandidates returns the categories a new node may be placed under.
func (a *Catalog) ParentCandidates(w http.ResponseWriter, r *http.Request) {
	tree, err := a.categories.Tree(r.Context())
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusOK, views(tree, tree.ValidParentCandidates()))
}

// ProductAnchors returns the categories a product may be attached to.
func (a *Catalog) ProductAnchors(w http.ResponseWriter, r *http.Request) {
	tree, err := a.categories.Tree(r.Context())
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusOK, views(tree, tree.ValidProductAnchors()))
}

// GetCategory returns one category with its direct children.
func (a *Catalog) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	tree, err := a.categories.Tree(r.Context())
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	v, err := tree.View(id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	v.Children = views(tree, tree.Children(id))
	writeJSON(w, http.StatusOK, v)
}

// CategoryLeaves returns the leaf-level descendants of a category. The
// optional "limit" caps the result; "active=false" includes inactive leaves.
func (a *Catalog) CategoryLeaves(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}
	var keep func(models.Category) bool
	if r.URL.Query().Get("active") != "false" {
		keep = func(c models.Category) bool { return c.IsActive }
	}

	tree, err := a.categories.Tree(r.Context())
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	leaves, err := tree.LeafDescendants(id, limit, keep)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusOK, views(tree, leaves))
}

// CategoryAttributes returns the attributes assigned to a category in
// display order.
func (a *Catalog) CategoryAttributes(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	c, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if c == nil {
		notFound(w, "category", id.String())
		return
	}
	items, err := a.assignments.ListForCategory(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if items == nil {
		items = []models.CategoryAttribute{}
	}
	writeJSON(w, http.StatusOK, items)
}

type createCategoryRequest struct {
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	ParentID *uuid.UUID `json:"parent_id"`
	IsActive *bool      `json:"is_active"`
}

// CreateCategory adds a category. The slug is derived from the name when
// omitted and new categories are active unless stated otherwise.
func (a *Catalog) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if msg := validateName("Name", req.Name); msg != "" {
		badRequest(w, msg)
		return
	}
	if msg := validateSlug(req.Slug); msg != "" {
		badRequest(w, msg)
		return
	}

	c := &models.Category{
		Name:     req.Name,
		Slug:     strings.TrimSpace(req.Slug),
		ParentID: req.ParentID,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	created, err := a.categories.Create(r.Context(), c)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "category", created.ID, "create")
	writeJSON(w, http.StatusCreated, created)
}

type updateCategoryRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	IsActive *bool   `json:"is_active"`
}

// UpdateCategory changes the name, slug or active flag of a category.
// Renaming without a slug regenerates the slug from the new name.
func (a *Catalog) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	c, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if c == nil {
		notFound(w, "category", id.String())
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if msg := validateName("Name", name); msg != "" {
			badRequest(w, msg)
			return
		}
		if name != c.Name && req.Slug == nil {
			c.Slug = ""
		}
		c.Name = name
	}
	if req.Slug != nil {
		if msg := validateSlug(*req.Slug); msg != "" {
			badRequest(w, msg)
			return
		}
		c.Slug = strings.TrimSpace(*req.Slug)
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	updated, err := a.categories.Update(r.Context(), c)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "category", id, "update")
	writeJSON(w, http.StatusOK, updated)
}

type setParentRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// SetCategoryParent moves a category. A null parent_id makes it a root.
func (a *Catalog) SetCategoryParent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req setParentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	moved, err := a.categories.SetParent(r.Context(), id, req.ParentID)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "category", id, "move")
	writeJSON(w, http.StatusOK, moved)
}

// DeleteCategory removes a category and its subtree.
func (a *Catalog) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := a.categories.Delete(r.Context(), id); err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	a.invalidateSearch(r.Context(), "category", id, "delete")
	w.WriteHeader(http.StatusNoContent)
}

type assignAttributeRequest struct {
	AttributeID uuid.UUID `json:"attribute_id"`
	IsRequired  bool      `json:"is_required"`
	SortOrder   int       `json:"sort_order"`
}

// AssignAttribute attaches an attribute to a category.
func (a *Catalog) AssignAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req assignAttributeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.AttributeID == uuid.Nil {
		badRequest(w, "attribute_id is required.")
		return
	}
	if req.SortOrder < 0 {
		badRequest(w, "sort_order cannot be negative.")
		return
	}

	ca, err := a.assignments.Assign(r.Context(), &models.CategoryAttribute{
		CategoryID:  id,
		AttributeID: req.AttributeID,
		IsRequired:  req.IsRequired,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusCreated, ca)
}

type updateAssignmentRequest struct {
	IsRequired *bool `json:"is_required"`
	SortOrder  *int  `json:"sort_order"`
}

// UpdateAssignment changes whether an assigned attribute is required and
// where it is displayed.
func (a *Catalog) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	attributeID, ok := urlID(w, r, "attributeID")
	if !ok {
		return
	}
	var req updateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.SortOrder != nil && *req.SortOrder < 0 {
		badRequest(w, "sort_order cannot be negative.")
		return
	}

	ca, err := a.assignments.Update(r.Context(), id, attributeID, req.IsRequired, req.SortOrder)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusOK, ca)
}

// UnassignAttribute detaches an attribute from a category.
func (a *Catalog) UnassignAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	attributeID, ok := urlID(w, r, "attributeID")
	if !ok {
		return
	}
	if err := a.assignments.Unassign(r.Context(), id, attributeID); err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
