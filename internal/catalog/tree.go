// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the rules of the product catalog: the three-level
// category tree, attribute assignment ordering, and typed attribute values.
// Everything here is pure and works on in-memory snapshots; persistence and
// locking live in the store package.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"indomart/internal/models"
)

// Tree is an arena-style snapshot of the category hierarchy. Nodes are held
// by id and refer to their parent by id only; child lists are an index over
// parent ids, kept in display order (name, then slug).
type Tree struct {
	nodes    map[uuid.UUID]*models.Category
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
	slugs    map[string]uuid.UUID
}

// NewTree builds a tree from a flat list of categories. The list is not
// validated: malformed chains surface as errors from Classify.
func NewTree(cats []models.Category) *Tree {
	t := &Tree{
		nodes:    make(map[uuid.UUID]*models.Category, len(cats)),
		children: make(map[uuid.UUID][]uuid.UUID),
		slugs:    make(map[string]uuid.UUID, len(cats)),
	}
	for i := range cats {
		c := cats[i]
		t.nodes[c.ID] = &c
		t.slugs[c.Slug] = c.ID
	}
	for id, c := range t.nodes {
		if c.ParentID == nil {
			t.roots = append(t.roots, id)
		} else {
			t.children[*c.ParentID] = append(t.children[*c.ParentID], id)
		}
	}
	t.sortIDs(t.roots)
	for _, ids := range t.children {
		t.sortIDs(ids)
	}
	return t
}

func (t *Tree) compare(a, b uuid.UUID) int {
	na, nb := t.nodes[a], t.nodes[b]
	if c := cmp.Compare(strings.ToLower(na.Name), strings.ToLower(nb.Name)); c != 0 {
		return c
	}
	if c := cmp.Compare(na.Slug, nb.Slug); c != 0 {
		return c
	}
	return cmp.Compare(a.String(), b.String())
}

func (t *Tree) sortIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, t.compare)
}

// Get returns a copy of the node with the given id.
func (t *Tree) Get(id uuid.UUID) (models.Category, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return models.Category{}, false
	}
	return *n, true
}

// Children returns the direct children of id in display order.
func (t *Tree) Children(id uuid.UUID) []models.Category {
	return t.collect(t.children[id])
}

// HasChildren reports whether any node names id as its parent.
func (t *Tree) HasChildren(id uuid.UUID) bool {
	return len(t.children[id]) > 0
}

// Roots returns the parentless nodes in display order.
func (t *Tree) Roots() []models.Category {
	return t.collect(t.roots)
}

func (t *Tree) collect(ids []uuid.UUID) []models.Category {
	out := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, *t.nodes[id])
	}
	return out
}

// Depth returns the number of hops from id to its root. Chains longer than
// models.MaxDepth, including cycles, are rejected with ErrInvalidDepth.
func (t *Tree) Depth(id uuid.UUID) (int, error) {
	n, ok := t.nodes[id]
	if !ok {
		return 0, Errorf(ErrNotFound, id.String(), "category does not exist")
	}
	depth := 0
	for n.ParentID != nil {
		depth++
		if depth > models.MaxDepth {
			return 0, Errorf(ErrInvalidDepth, id.String(), "category is nested deeper than %d levels", models.MaxDepth+1)
		}
		parent, ok := t.nodes[*n.ParentID]
		if !ok {
			return 0, Errorf(ErrNotFound, n.ParentID.String(), "parent of %q does not exist", n.Name)
		}
		n = parent
	}
	return depth, nil
}

// Classify derives the level of id from its parent chain.
func (t *Tree) Classify(id uuid.UUID) (models.Level, error) {
	depth, err := t.Depth(id)
	if err != nil {
		return "", err
	}
	level, _ := models.LevelForDepth(depth)
	return level, nil
}

// height returns how many levels hang below id (0 for a childless node).
// The walk stops one level past the cap so malformed data cannot loop.
func (t *Tree) height(id uuid.UUID) int {
	h := 0
	level := t.children[id]
	for len(level) > 0 && h <= models.MaxDepth {
		h++
		var next []uuid.UUID
		for _, c := range level {
			next = append(next, t.children[c]...)
		}
		level = next
	}
	return h
}

// IsDescendant reports whether id sits somewhere below ancestor.
func (t *Tree) IsDescendant(id, ancestor uuid.UUID) bool {
	n, ok := t.nodes[id]
	for hops := 0; ok && n.ParentID != nil && hops <= models.MaxDepth; hops++ {
		if *n.ParentID == ancestor {
			return true
		}
		n, ok = t.nodes[*n.ParentID]
	}
	return false
}

// CheckParent validates moving id under parentID (nil makes it a root)
// without changing the tree.
func (t *Tree) CheckParent(id uuid.UUID, parentID *uuid.UUID) error {
	if _, ok := t.nodes[id]; !ok {
		return Errorf(ErrNotFound, id.String(), "category does not exist")
	}
	below := t.height(id)
	if parentID == nil {
		if below > models.MaxDepth {
			return Errorf(ErrInvalidDepth, id.String(), "subtree is %d levels deep", below+1)
		}
		return nil
	}

	pid := *parentID
	if _, ok := t.nodes[pid]; !ok {
		return Errorf(ErrNotFound, pid.String(), "parent category does not exist")
	}
	if pid == id {
		return Errorf(ErrInvalidParent, id.String(), "category cannot be its own parent")
	}
	if t.IsDescendant(pid, id) {
		return Errorf(ErrInvalidParent, pid.String(), "parent is a descendant of the category")
	}
	parentDepth, err := t.Depth(pid)
	if err != nil {
		return err
	}
	if parentDepth >= models.MaxDepth {
		return Errorf(ErrInvalidParent, pid.String(), "leaf categories cannot have children")
	}
	if parentDepth+1+below > models.MaxDepth {
		return Errorf(ErrInvalidDepth, id.String(), "moving under %s would nest %d levels deep", pid, parentDepth+below+2)
	}
	return nil
}

// SetParent moves id under parentID after CheckParent accepts the edge.
func (t *Tree) SetParent(id uuid.UUID, parentID *uuid.UUID) error {
	if err := t.CheckParent(id, parentID); err != nil {
		return err
	}
	n := t.nodes[id]
	if n.ParentID != nil {
		t.children[*n.ParentID] = slices.DeleteFunc(t.children[*n.ParentID], func(c uuid.UUID) bool { return c == id })
	} else {
		t.roots = slices.DeleteFunc(t.roots, func(c uuid.UUID) bool { return c == id })
	}
	if parentID == nil {
		n.ParentID = nil
		t.roots = t.insertSorted(t.roots, id)
		return nil
	}
	pid := *parentID
	n.ParentID = &pid
	t.children[pid] = t.insertSorted(t.children[pid], id)
	return nil
}

// Insert adds a new node. The slug must be unique and the parent, if any,
// must still have room below it.
func (t *Tree) Insert(c models.Category) error {
	if _, ok := t.nodes[c.ID]; ok {
		return fmt.Errorf("insert category: id %s already present", c.ID)
	}
	if other, ok := t.slugs[c.Slug]; ok {
		return Errorf(ErrDuplicateSlug, c.Slug, "slug already used by %s", other)
	}
	if c.ParentID != nil {
		pid := *c.ParentID
		if _, ok := t.nodes[pid]; !ok {
			return Errorf(ErrNotFound, pid.String(), "parent category does not exist")
		}
		depth, err := t.Depth(pid)
		if err != nil {
			return err
		}
		if depth >= models.MaxDepth {
			return Errorf(ErrInvalidParent, pid.String(), "leaf categories cannot have children")
		}
	}
	n := c
	t.nodes[n.ID] = &n
	t.slugs[n.Slug] = n.ID
	if n.ParentID == nil {
		t.roots = t.insertSorted(t.roots, n.ID)
	} else {
		t.children[*n.ParentID] = t.insertSorted(t.children[*n.ParentID], n.ID)
	}
	return nil
}

func (t *Tree) insertSorted(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	i, _ := slices.BinarySearchFunc(ids, id, t.compare)
	return slices.Insert(ids, i, id)
}

// ValidParentCandidates returns the nodes a category may be moved under:
// roots, and nodes that already have children. Leaves never qualify.
func (t *Tree) ValidParentCandidates() []models.Category {
	var out []models.Category
	t.walk(func(c *models.Category) {
		if c.ParentID == nil || t.HasChildren(c.ID) {
			out = append(out, *c)
		}
	})
	return out
}

// ValidProductAnchors returns the nodes a product may be attached to:
// every node without children.
func (t *Tree) ValidProductAnchors() []models.Category {
	var out []models.Category
	t.walk(func(c *models.Category) {
		if !t.HasChildren(c.ID) {
			out = append(out, *c)
		}
	})
	return out
}

// IsProductAnchor reports whether products may be attached to id.
func (t *Tree) IsProductAnchor(id uuid.UUID) bool {
	_, ok := t.nodes[id]
	return ok && !t.HasChildren(id)
}

// walk visits nodes depth-first in display order.
func (t *Tree) walk(fn func(*models.Category)) {
	seen := make(map[uuid.UUID]bool, len(t.nodes))
	var visit func(ids []uuid.UUID, depth int)
	visit = func(ids []uuid.UUID, depth int) {
		for _, id := range ids {
			if seen[id] || depth > models.MaxDepth+1 {
				continue
			}
			seen[id] = true
			fn(t.nodes[id])
			visit(t.children[id], depth+1)
		}
	}
	visit(t.roots, 0)
}

// LeafDescendants returns the leaf-level nodes reachable from id: the node
// itself for a LEAF, its children for a SUB, its grandchildren for a MAIN.
// The result is deduplicated, filtered by keep (nil keeps everything),
// ordered by name and truncated to limit when limit > 0.
func (t *Tree) LeafDescendants(id uuid.UUID, limit int, keep func(models.Category) bool) ([]models.Category, error) {
	level, err := t.Classify(id)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	switch level {
	case models.LevelLeaf:
		ids = []uuid.UUID{id}
	case models.LevelSub:
		ids = t.children[id]
	case models.LevelMain:
		for _, sub := range t.children[id] {
			ids = append(ids, t.children[sub]...)
		}
		ids = slices.Clone(ids)
		t.sortIDs(ids)
	}

	out := make([]models.Category, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, cid := range ids {
		if seen[cid] {
			continue
		}
		seen[cid] = true
		c := *t.nodes[cid]
		if keep != nil && !keep(c) {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Path returns the names from the root down to id.
func (t *Tree) Path(id uuid.UUID) []string {
	var names []string
	n, ok := t.nodes[id]
	for hops := 0; ok && hops <= models.MaxDepth+1; hops++ {
		names = append(names, n.Name)
		if n.ParentID == nil {
			break
		}
		n, ok = t.nodes[*n.ParentID]
	}
	slices.Reverse(names)
	return names
}

// FullPath joins Path with " > ".
func (t *Tree) FullPath(id uuid.UUID) string {
	return strings.Join(t.Path(id), " > ")
}

// Subtree returns id followed by all of its descendants.
func (t *Tree) Subtree(id uuid.UUID) []uuid.UUID {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	out := []uuid.UUID{id}
	seen := map[uuid.UUID]bool{id: true}
	for i := 0; i < len(out); i++ {
		for _, c := range t.children[out[i]] {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// View returns id with its derived level and path.
func (t *Tree) View(id uuid.UUID) (models.CategoryView, error) {
	n, ok := t.nodes[id]
	if !ok {
		return models.CategoryView{}, Errorf(ErrNotFound, id.String(), "category does not exist")
	}
	level, err := t.Classify(id)
	if err != nil {
		return models.CategoryView{}, err
	}
	return models.CategoryView{Category: *n, Level: level, FullPath: t.FullPath(id)}, nil
}

// Flat returns every well-formed node in display order with its level and
// path. Nodes whose chain cannot be classified are skipped.
func (t *Tree) Flat() []models.CategoryView {
	var out []models.CategoryView
	t.walk(func(c *models.Category) {
		if v, err := t.View(c.ID); err == nil {
			out = append(out, v)
		}
	})
	return out
}

// Nested returns the roots with their children attached, in display order.
func (t *Tree) Nested() []models.CategoryView {
	var build func(ids []uuid.UUID, depth int) []models.CategoryView
	build = func(ids []uuid.UUID, depth int) []models.CategoryView {
		if depth > models.MaxDepth {
			return nil
		}
		out := make([]models.CategoryView, 0, len(ids))
		for _, id := range ids {
			v, err := t.View(id)
			if err != nil {
				continue
			}
			v.Children = build(t.children[id], depth+1)
			out = append(out, v)
		}
		return out
	}
	return build(t.roots, 0)
}
