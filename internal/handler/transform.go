package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mlorentedev/sidehustler/internal/transform"
)

// Transformer rewrites text with a provider.
type Transformer interface {
	Transform(ctx context.Context, req transform.Request) (transform.Result, error)
}

type transformRequest struct {
	Text           string         `json:"text"`
	Transformation string         `json:"transformation"`
	Provider       string         `json:"provider"`
	Model          string         `json:"model"`
	SystemPrompt   string         `json:"system_prompt"`
	Prompt         string         `json:"prompt"`
	Values         map[string]any `json:"values"`
	Temperature    *float32       `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
}

type transformResponse struct {
	Text      string `json:"text"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func Transform(t Transformer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transformRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		values, err := promptValues(req.Values)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := t.Transform(r.Context(), transform.Request{
			Text:           req.Text,
			Transformation: req.Transformation,
			Provider:       req.Provider,
			Model:          req.Model,
			SystemPrompt:   req.SystemPrompt,
			Prompt:         req.Prompt,
			PromptValues:   values,
			Temperature:    req.Temperature,
			MaxTokens:      req.MaxTokens,
		})
		if err != nil {
			writeServiceError(w, err, http.StatusBadGateway, "transform failed: ")
			return
		}

		writeJSON(w, http.StatusOK, transformResponse{
			Text:      res.Text,
			Provider:  string(res.Provider),
			Model:     res.Model,
			ElapsedMs: res.Elapsed.Milliseconds(),
		})
	}
}

// promptValues formats JSON scalars for placeholder filling. The front-end
// sends numbers as well as strings; null leaves the placeholder untouched.
func promptValues(in map[string]any) (map[string]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch v := v.(type) {
		case nil:
		case string:
			out[k] = v
		case float64, bool:
			out[k] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("values.%s: must be a string, number or boolean", k)
		}
	}
	return out, nil
}
