package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"project-launchpad/internal/apperr"
)

// RespondWithError writes an error response in JSON format
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithServiceError maps an apperr kind to a status code. Validation
// messages are returned as is, remote failures get a generic message.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, apperr.ErrValidation):
		logger.InfoContext(ctx, "invalid input", "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		logger.InfoContext(ctx, "referenced record not found", "error", err)
		RespondWithError(w, http.StatusNotFound, "referenced record not found")
	default:
		logger.ErrorContext(ctx, "request failed", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
