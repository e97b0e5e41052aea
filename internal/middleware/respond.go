package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError emits the API error envelope from middleware, where the
// handlers' responder isn't available without an import cycle.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
