package handlers

import (
	"encoding/json"
	"net/http"
)

// Error codes used in JSON error bodies.
const (
	errCodeInvalidRequest = "invalid_request"
	errCodeInternal       = "internal_error"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// SuccessResponse is the body of operations that return no data.
type SuccessResponse struct {
	Success bool `json:"success"`
}
