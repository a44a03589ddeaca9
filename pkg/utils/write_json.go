package utils

import (
	"encoding/json"
	"net/http"
)

// WriteJSON sends data as a 200 JSON response. Handlers that need another
// status code encode the body themselves.
func WriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode JSON response", http.StatusInternalServerError)
	}
}
