package handler

import (
	"context"
	"net/http"
	"strings"
)

// ModelLister lists the models a provider offers.
type ModelLister interface {
	ListModels(ctx context.Context, providerName string) ([]string, error)
}

type modelsResponse struct {
	Provider string   `json:"provider"`
	Models   []string `json:"models"`
}

// Models answers GET /api/models?provider=<name>. An empty name uses the default provider.
func Models(l ModelLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("provider"))

		models, err := l.ListModels(r.Context(), name)
		if err != nil {
			writeServiceError(w, err, http.StatusBadGateway, "list models failed: ")
			return
		}
		if models == nil {
			models = []string{}
		}

		writeJSON(w, http.StatusOK, modelsResponse{Provider: name, Models: models})
	}
}
