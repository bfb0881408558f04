// Task 8.4: Handler helper functions
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	defaultRunListLimit = 25
	maxRunListLimit     = 100
)

// writeError writes an error JSON response with a consistent shape.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// parseLimitParam extracts and clamps the limit query parameter.
// Extracted to keep run-listing handlers below the complexity threshold.
func parseLimitParam(r *http.Request) int {
	limit := defaultRunListLimit
	if lim, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && lim > 0 {
		if lim > maxRunListLimit {
			lim = maxRunListLimit
		}
		limit = lim
	}
	return limit
}
