package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ParseIntParam reads an integer query parameter with a fallback default.
func ParseIntParam(r *http.Request, paramName string, defaultValue int) int {
	if value := r.URL.Query().Get(paramName); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// WriteErrorResponse writes a JSON error payload.
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{
		"error":   message,
		"service": "mix-analyzer",
	}

	json.NewEncoder(w).Encode(response)
}

// WriteJSONResponse writes a JSON payload.
func WriteJSONResponse(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}
