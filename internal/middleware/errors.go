package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the {"error": ...} body the handlers use for failures
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
