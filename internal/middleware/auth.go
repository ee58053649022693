// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "" when the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAdminToken rejects requests whose bearer token does not match the
// bcrypt hash. An empty hash disables every admin route.
func RequireAdminToken(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if hash == "" || token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="catalog-admin"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "admin token required")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
				slog.Warn("admin token rejected", "path", r.URL.Path, "remote", clientIP(r))
				w.Header().Set("WWW-Authenticate", `Bearer realm="catalog-admin", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
