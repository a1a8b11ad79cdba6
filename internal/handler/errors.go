package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
)

// errorDetail is the machine-readable half of an error response.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse is the uniform JSON error envelope for all endpoints.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON serializes v with the given status. Encoding failures after the
// header has been written can only be logged.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

// writeNotFound returns a 404 envelope. The caller supplies the message
// because the handler is the layer that knows what was being looked up.
func writeNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, errorResponse{errorDetail{Code: "not_found", Message: message}})
}

// writeValidation returns a 422 envelope with the human-readable part of a
// wrapped domain.ErrValidation.
func writeValidation(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{Code: "validation_error", Message: validationMessage(err)}})
}

// writeBadRequest returns a 422 envelope for requests rejected before
// reaching the service layer (e.g. an unreadable body).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{Code: "validation_error", Message: message}})
}

// writeServerError returns an opaque 500 envelope. Details belong in the log,
// not on the wire.
func writeServerError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{errorDetail{Code: "internal_error", Message: "internal server error"}})
}

// writeServiceError maps domain sentinel errors onto status codes; anything
// unrecognized is treated as a server-side failure and logged.
func writeServiceError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeNotFound(w, notFoundMessage)
	case errors.Is(err, domain.ErrValidation):
		writeValidation(w, err)
	default:
		slog.Error("request failed", "error", err)
		writeServerError(w)
	}
}

// validationMessage extracts the human-readable tail from a wrapped sentinel,
// e.g. "service.EntryService.Create: validation error: route is required"
// becomes "route is required".
func validationMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
