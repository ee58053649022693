// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"indomart/internal/catalog"
	"indomart/internal/models"
)

// ListAttributes returns every attribute definition.
func (a *Catalog) ListAttributes(w http.ResponseWriter, r *http.Request) {
	items, err := a.attributes.List(r.Context())
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	if items == nil {
		items = []models.Attribute{}
	}
	writeJSON(w, http.StatusOK, items)
}

type createAttributeRequest struct {
	Name string               `json:"name"`
	Kind models.AttributeKind `json:"data_type"`
	Unit string               `json:"unit"`
}

// CreateAttribute defines a new global attribute.
func (a *Catalog) CreateAttribute(w http.ResponseWriter, r *http.Request) {
	var req createAttributeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)
	if msg := validateAttribute(req.Name, req.Kind, req.Unit); msg != "" {
		badRequest(w, msg)
		return
	}

	attr, err := a.attributes.Create(r.Context(), &models.Attribute{Name: req.Name, Kind: req.Kind, Unit: req.Unit})
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusCreated, attr)
}

// DeleteAttribute removes an attribute with its assignments and values.
func (a *Catalog) DeleteAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := a.attributes.Delete(r.Context(), id); err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type insertValueRequest struct {
	AttributeID uuid.UUID    `json:"attribute_id"`
	Value       models.Value `json:"value"`
}

// InsertValue sets a product attribute that has no value yet.
func (a *Catalog) InsertValue(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req insertValueRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.AttributeID == uuid.Nil {
		badRequest(w, "attribute_id is required.")
		return
	}
	if msg := validateValue(req.Value); msg != "" {
		badRequest(w, msg)
		return
	}

	v, err := a.values.Set(r.Context(), productID, req.AttributeID, req.Value, catalog.Insert)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

type updateValueRequest struct {
	Value models.Value `json:"value"`
}

// UpdateValue replaces an existing product attribute value.
func (a *Catalog) UpdateValue(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	attributeID, ok := urlID(w, r, "attributeID")
	if !ok {
		return
	}
	var req updateValueRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if msg := validateValue(req.Value); msg != "" {
		badRequest(w, msg)
		return
	}

	v, err := a.values.Set(r.Context(), productID, attributeID, req.Value, catalog.Update)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type batchValuesRequest struct {
	Values []catalog.BatchEntry `json:"values"`
}

// BatchValues inserts several values for one product, all or nothing.
func (a *Catalog) BatchValues(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req batchValuesRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if len(req.Values) == 0 {
		badRequest(w, "values must not be empty.")
		return
	}
	for _, e := range req.Values {
		if msg := validateValue(e.Value); msg != "" {
			badRequest(w, msg)
			return
		}
	}

	written, err := a.values.SetBatch(r.Context(), productID, req.Values)
	if err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	writeJSON(w, http.StatusCreated, written)
}

// DeleteValue clears the value a product holds for an attribute.
func (a *Catalog) DeleteValue(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	attributeID, ok := urlID(w, r, "attributeID")
	if !ok {
		return
	}
	if err := a.values.Delete(r.Context(), productID, attributeID); err != nil {
		respondErr(w, r, a.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
