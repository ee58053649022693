package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the same JSON error envelope the API handlers use.
func writeError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": kind, "message": msg})
}
