// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"indomart/internal/search"
)

// Search serves the storefront search dropdown.
type Search struct {
	resolver *search.Resolver
}

// NewSearch creates the search handler.
func NewSearch(resolver *search.Resolver) *Search {
	return &Search{resolver: resolver}
}

// parseLimits reads products_limit, categories_limit and brands_limit.
// Missing values take the defaults; values above the maximum are clamped.
func parseLimits(q url.Values) (search.Limits, error) {
	var l search.Limits
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"products_limit", &l.Products},
		{"categories_limit", &l.Categories},
		{"brands_limit", &l.Brands},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return l, fmt.Errorf("%s must be a positive integer", p.name)
		}
		*p.dst = n
	}
	return l.Normalize(), nil
}

// Query resolves ?q= into products, brands and categories grouped by level.
// A blank query answers with the empty result whatever the limits say.
func (s *Search) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("q")) == "" {
		writeJSON(w, http.StatusOK, search.EmptyResult())
		return
	}
	limits, err := parseLimits(q)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	res, err := s.resolver.Resolve(r.Context(), q.Get("q"), limits)
	if errors.Is(err, search.ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "Search is temporarily unavailable.", "")
		return
	}
	if err != nil {
		slog.Error("search failed", "query", q.Get("q"), "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "Internal Server Error", "")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
