package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avops/captrack/internal/inventory"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeInternal    = "internal_error"
	ErrCodeUnavailable = "unavailable"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeConflict writes a 409 error response.
func writeConflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, ErrCodeConflict, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeStoreError maps inventory sentinel errors to HTTP responses.
//
// Validation failures are 400, unknown references 404, and uniqueness
// or association violations 409. Anything unmapped is a 500 with a
// generic message so internal details stay out of responses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, inventory.ErrEmptyValue),
		errors.Is(err, inventory.ErrInvalidClusterEnv),
		errors.Is(err, inventory.ErrInvalidRole),
		errors.Is(err, inventory.ErrMissingVendor):
		writeBadRequest(w, err.Error())
	case errors.Is(err, inventory.ErrDuplicateLocationName),
		errors.Is(err, inventory.ErrDuplicateVendorNameModel),
		errors.Is(err, inventory.ErrDuplicateClusterName),
		errors.Is(err, inventory.ErrDuplicateClusterAdminHost),
		errors.Is(err, inventory.ErrDuplicateCaName),
		errors.Is(err, inventory.ErrDuplicateCaAddress),
		errors.Is(err, inventory.ErrDuplicateCaSerial),
		errors.Is(err, inventory.ErrAssociation),
		errors.Is(err, inventory.ErrInvalidOperation),
		errors.Is(err, inventory.ErrMissingConfigSetting):
		writeConflict(w, err.Error())
	default:
		writeInternalError(w, "internal error")
	}
}
