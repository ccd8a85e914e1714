package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const lmStudioDefaultBaseURL = "http://localhost:1234/v1"

// LMStudioProvider connects to LM Studio's OpenAI-compatible server.
// No key is sent. An empty model selects whatever the server lists first.
type LMStudioProvider struct {
	BaseURL string
	Client  *http.Client
}

func (l *LMStudioProvider) Name() string { return "LM Studio" }

func (l *LMStudioProvider) Kind() Kind { return KindLMStudio }

func (l *LMStudioProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	c := newOpenAIClient(l.BaseURL, lmStudioDefaultBaseURL, "", l.Client)

	if req.Model == "" {
		models, err := listModels(ctx, c, "lmstudio")
		if err != nil {
			return "", err
		}
		if len(models) == 0 {
			return "", fmt.Errorf("lmstudio: no model loaded")
		}
		req.Model = models[0]
	}

	return chatCompletion(ctx, c, req, "lmstudio")
}

func (l *LMStudioProvider) ListModels(ctx context.Context) ([]string, error) {
	return listModels(ctx, newOpenAIClient(l.BaseURL, lmStudioDefaultBaseURL, "", l.Client), "lmstudio")
}

func (l *LMStudioProvider) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	baseURL := l.BaseURL
	if baseURL == "" {
		baseURL = lmStudioDefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/models", nil)
	if err != nil {
		return false
	}

	resp, err := httpClient(l.Client).Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func httpClient(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
