package handler

import "net/http"

type PromptLister interface {
	PromptNames() []string
}

type promptsResponse struct {
	Prompts []string `json:"prompts"`
}

func Prompts(p PromptLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, promptsResponse{Prompts: p.PromptNames()})
	}
}
