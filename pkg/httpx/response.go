package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// Error is a JSON error body with its intended HTTP status.
type Error struct {
	Status      int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// NewError builds an Error for the given status and code.
func NewError(status int, code, description string) *Error {
	return &Error{Status: status, Code: code, Description: description}
}

func (e *Error) Error() string { return e.Code }

// WriteError writes the error as a JSON response.
func (e *Error) WriteError(w http.ResponseWriter) {
	WriteJSON(w, e.Status, e)
}
