package handler

import (
	"net/http"

	"github.com/mlorentedev/sidehustler/internal/credential"
)

// KeyManager stores and resolves the provider API key.
type KeyManager interface {
	SaveAPIKey(key string) error
	LoadAPIKey() (string, error)
	APIKeyStatus() (credential.Status, error)
	ClearAPIKey() error
}

type apiKeyBody struct {
	APIKey string `json:"api_key"`
}

func SaveCredentials(k KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apiKeyBody
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := k.SaveAPIKey(req.APIKey); err != nil {
			writeServiceError(w, err, http.StatusInternalServerError, "save failed: ")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func LoadCredentials(k KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := k.LoadAPIKey()
		if err != nil {
			writeServiceError(w, err, http.StatusInternalServerError, "load failed: ")
			return
		}
		writeJSON(w, http.StatusOK, apiKeyBody{APIKey: key})
	}
}

func CredentialStatus(k KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := k.APIKeyStatus()
		if err != nil {
			writeServiceError(w, err, http.StatusInternalServerError, "status failed: ")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func ClearCredentials(k KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := k.ClearAPIKey(); err != nil {
			writeServiceError(w, err, http.StatusInternalServerError, "clear failed: ")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
