package utils

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Errors  any    `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	_ = WriteJSON(w, status, errorResponse{Error: msg})
}

// WriteJSONErrorDetails is WriteJSONError with an extra "errors" field.
func WriteJSONErrorDetails(w http.ResponseWriter, status int, msg string, details any) {
	_ = WriteJSON(w, status, errorResponse{Error: msg, Errors: details})
}
