// Package handler is the HTTP layer: it parses requests, validates their
// shape, calls the service layer, and writes JSON responses. It knows
// nothing about SQL, and the services it calls know nothing about HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/blog-platform/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints,
// so the frontend always parses the same shape regardless of status code.
// Fields is populated only for validation errors, listing every violated
// input field.
type ErrorResponse struct {
	Error   string               `json:"error"`   // machine-readable error type, e.g. "not_found"
	Message string               `json:"message"` // human-readable description
	Fields  []apperror.FieldError `json:"fields,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body; once Encode starts
// writing, header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status code and sends it.
//
// The service layer returns apperror sentinels; this is the single place
// they become status codes. Anything outside the taxonomy is logged and
// returned as a generic 500 — internal error text (SQL, file paths) never
// reaches a client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Fields:  appErr.Fields,
		})
		return
	}

	slog.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
