package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mlorentedev/sidehustler/internal/credential"
	"github.com/mlorentedev/sidehustler/internal/prompt"
	"github.com/mlorentedev/sidehustler/internal/provider"
	"github.com/mlorentedev/sidehustler/internal/transform"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the body into v, answering 413 or 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps backend errors onto HTTP statuses. Errors with no
// mapping are answered with fallback and prefixed with prefix.
func writeServiceError(w http.ResponseWriter, err error, fallback int, prefix string) {
	var verr *transform.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, provider.ErrUnknownProvider),
		errors.Is(err, prompt.ErrUnknownPrompt),
		errors.Is(err, credential.ErrEmptyKey):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, credential.ErrNotConfigured):
		writeError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, prefix+err.Error())
	default:
		writeError(w, fallback, prefix+err.Error())
	}
}
