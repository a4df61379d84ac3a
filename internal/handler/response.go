// Package handler maps HTTP requests onto the service layer and back. It is
// the only place that knows about status codes and wire shapes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/soarr/flightlog/internal/apperror"
)

// errorResponse is the uniform error body: {"error": "<message>"}.
type errorResponse struct {
	Error string `json:"error"`
}

// successResponse is the uniform acknowledgement body for operations that
// return no resource.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone already; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into its HTTP status:
// validation and conflict → 400, bad credentials → 401, missing or
// foreign-owned resources → 404. Anything unexpected is surfaced as a 500
// with the error text — this is a personal tool, not a hardened service.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
