package handler

import (
	"net/http"

	"github.com/mlorentedev/sidehustler/internal/transform"
)

// ProviderProber reports the availability of every provider.
type ProviderProber interface {
	Providers() []transform.ProviderStatus
}

type providerStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type healthResponse struct {
	Status    string                    `json:"status"`
	Version   string                    `json:"version,omitempty"`
	Providers map[string]providerStatus `json:"providers"`
}

func Health(p ProviderProber, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := p.Providers()
		providers := make(map[string]providerStatus, len(statuses))
		for _, s := range statuses {
			providers[string(s.Kind)] = providerStatus{
				Name:      s.Name,
				Available: s.Available,
				Reason:    s.Reason,
			}
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			Version:   version,
			Providers: providers,
		})
	}
}
