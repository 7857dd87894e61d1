package httpapi

import (
	"errors"
	"net/http"

	"github.com/avely/fintrack/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func notFound(w http.ResponseWriter)               { writeErr(w, http.StatusNotFound, "not_found", "not_found") }

// serviceErr maps a sentinel-wrapped service error onto an HTTP status. The
// wrapped message travels through so callers see what was wrong, not just
// the class of failure.
func serviceErr(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, errs.ErrNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrConflict):
		writeErr(w, http.StatusConflict, msg, "conflict")
	case errors.Is(err, errs.ErrInvalid):
		writeErr(w, http.StatusBadRequest, msg, "invalid")
	case errors.Is(err, errs.ErrUnprocessable):
		writeErr(w, http.StatusUnprocessableEntity, msg, "validation_error")
	case errors.Is(err, errs.ErrStorageUnavailable):
		writeErr(w, http.StatusServiceUnavailable, msg, "storage_unavailable")
	default:
		writeErr(w, http.StatusInternalServerError, "internal error", "")
	}
}
