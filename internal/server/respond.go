package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/calloway/mintleaf/internal/common"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error body in the API's message envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized becomes a 500 with a generic body; details go to the log
// only.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, common.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrDuplicateEntry):
		WriteError(w, http.StatusConflict, "Already exists")
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrInvalidToken):
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		logger.Error("request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
