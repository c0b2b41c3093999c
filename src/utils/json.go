package utils

import (
	"encoding/json"
	"net/http"

	"github.com/username/portfoy/src/logger"
)

// SendJSONError writes a flat {"error": message} payload with the given status.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WriteJSON writes a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Failed to encode JSON response", "error", err)
	}
}
