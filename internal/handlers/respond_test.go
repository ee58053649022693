// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"indomart/internal/catalog"
	"indomart/internal/metrics"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind catalog.Kind
		want int
	}{
		{catalog.ErrNotFound, http.StatusNotFound},
		{catalog.ErrDuplicateAssignment, http.StatusConflict},
		{catalog.ErrDuplicateSlug, http.StatusConflict},
		{catalog.ErrDuplicateName, http.StatusConflict},
		{catalog.ErrProtectedReference, http.StatusConflict},
		{catalog.ErrInvalidDepth, http.StatusUnprocessableEntity},
		{catalog.ErrInvalidParent, http.StatusUnprocessableEntity},
		{catalog.ErrInvalidAnchor, http.StatusUnprocessableEntity},
		{catalog.ErrTypeMismatch, http.StatusUnprocessableEntity},
		{catalog.ErrDuplicateAttributeInBatch, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := statusForKind(tt.kind); got != tt.want {
				t.Errorf("statusForKind(%s) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestRespondErr(t *testing.T) {
	m := metrics.New()

	t.Run("catalog error carries kind and key", func(t *testing.T) {
		err := fmt.Errorf("set parent: %w",
			catalog.Errorf(catalog.ErrInvalidParent, "abc", "parent is a leaf"))

		rr := httptest.NewRecorder()
		respondErr(rr, httptest.NewRequest(http.MethodPut, "/api/categories/abc/parent", nil), m, err)

		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("status: got %d, want 422", rr.Code)
		}
		var body errorBody
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		want := errorBody{Error: "invalid_parent", Message: "parent is a leaf", Key: "abc"}
		if body != want {
			t.Errorf("body: got %+v, want %+v", body, want)
		}
		if got := testutil.ToFloat64(m.CatalogRejections.WithLabelValues("invalid_parent")); got != 1 {
			t.Errorf("rejections: got %v, want 1", got)
		}
	})

	t.Run("bare kind", func(t *testing.T) {
		rr := httptest.NewRecorder()
		respondErr(rr, httptest.NewRequest(http.MethodGet, "/", nil), nil, catalog.ErrNotFound)
		if rr.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rr.Code)
		}
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		rr := httptest.NewRecorder()
		respondErr(rr, httptest.NewRequest(http.MethodGet, "/", nil), m, errors.New("pq: connection refused"))
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
		if strings.Contains(rr.Body.String(), "connection refused") {
			t.Errorf("internal error leaked: %s", rr.Body.String())
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"Mobiles"}`, false},
		{"unknown field", `{"name":"Mobiles","level":"SUB"}`, true},
		{"trailing data", `{"name":"a"}{"name":"b"}`, true},
		{"malformed", `{"name":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := decodeJSON(req, &dst)
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeJSON err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestURLID(t *testing.T) {
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/categories/nope", nil), "id", "nope")
	rr := httptest.NewRecorder()
	if _, ok := urlID(rr, req, "id"); ok {
		t.Fatal("malformed id should be rejected")
	}
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}
