// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"indomart/internal/catalog"
	"indomart/internal/metrics"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

// errorBody is the JSON envelope of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Key     string `json:"key,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, kind, msg, key string) {
	writeJSON(w, status, errorBody{Error: kind, Message: msg, Key: key})
}

// badRequest reports a malformed request.
func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, "invalid_request", msg, "")
}

// statusForKind maps a catalog error kind to an HTTP status.
func statusForKind(kind catalog.Kind) int {
	switch kind {
	case catalog.ErrNotFound:
		return http.StatusNotFound
	case catalog.ErrDuplicateAssignment, catalog.ErrDuplicateSlug, catalog.ErrDuplicateName, catalog.ErrProtectedReference:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// respondErr writes err as a JSON error. Catalog kinds map to 404, 409 or
// 422 and are counted as rejections; anything else is logged and hidden
// behind a 500.
func respondErr(w http.ResponseWriter, r *http.Request, m *metrics.Metrics, err error) {
	kind := catalog.KindOf(err)
	if kind == "" {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "Internal Server Error", "")
		return
	}

	if m != nil && kind != catalog.ErrNotFound {
		m.CatalogRejections.WithLabelValues(string(kind)).Inc()
	}

	msg, key := string(kind), ""
	var ce *catalog.Error
	if errors.As(err, &ce) {
		msg, key = ce.Msg, ce.Key
	}
	writeError(w, statusForKind(kind), string(kind), msg, key)
}

// notFound writes a 404 for the given entity id.
func notFound(w http.ResponseWriter, what, id string) {
	writeError(w, http.StatusNotFound, string(catalog.ErrNotFound), what+" does not exist", id)
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// urlID parses the chi URL parameter name as a UUID. A malformed id is
// reported as not found, since no entity can carry it.
func urlID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		notFound(w, "resource", raw)
		return uuid.Nil, false
	}
	return id, true
}
