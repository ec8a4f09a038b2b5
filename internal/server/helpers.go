package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/zenithfin/zenith/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// WriteServiceError maps domain errors to HTTP status codes. Missing or
// malformed credentials are the caller's fault; rejected credentials are an
// auth failure; everything else that went wrong talking to a broker is a bad
// gateway.
func WriteServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrNoBrokersConnected) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "no_brokers_connected"})
		return
	}

	var credErr *models.CredentialError
	if errors.As(err, &credErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: credErr.Error(), Code: "invalid_credentials"})
		return
	}

	var authErr *models.AuthenticationError
	if errors.As(err, &authErr) {
		status := http.StatusBadGateway
		if authErr.Rejected {
			status = http.StatusUnauthorized
		}
		WriteJSON(w, status, ErrorResponse{Error: authErr.Error(), Code: "authentication_failed"})
		return
	}

	var fetchErr *models.FetchError
	if errors.As(err, &fetchErr) {
		WriteJSON(w, http.StatusBadGateway, ErrorResponse{Error: fetchErr.Error(), Code: "broker_unavailable"})
		return
	}

	WriteError(w, http.StatusInternalServerError, err.Error())
}
