// Package handler implements the HTTP endpoints. Each resource gets its
// own handler type; all of them speak JSON and translate service errors
// into statuses (validation → 400, not found → 404, everything else →
// 500).
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/contech-dc/contrack/internal/request"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service error to a response. notFoundMsg is
// used when the error is ErrNotFound so callers can name the missing
// record; fallback covers storage and decode failures.
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg, fallback string) {
	switch {
	case request.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, request.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "no data provided")
		return false
	}
	return true
}
