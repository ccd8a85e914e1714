package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const openAIDefaultBaseURL = "https://api.openai.com/v1"

// OpenAIProvider talks to the hosted OpenAI API with a bearer key.
type OpenAIProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func (o *OpenAIProvider) Name() string { return "OpenAI" }

func (o *OpenAIProvider) Kind() Kind { return KindOpenAI }

func (o *OpenAIProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("openai: missing API key")
	}
	return chatCompletion(ctx, newOpenAIClient(o.BaseURL, openAIDefaultBaseURL, o.APIKey, o.Client), req, "openai")
}

func (o *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	if o.APIKey == "" {
		return nil, fmt.Errorf("openai: missing API key")
	}
	return listModels(ctx, newOpenAIClient(o.BaseURL, openAIDefaultBaseURL, o.APIKey, o.Client), "openai")
}

func (o *OpenAIProvider) Available() bool {
	return o.APIKey != ""
}

func newOpenAIClient(baseURL, fallback, apiKey string, httpClient *http.Client) *openai.Client {
	if baseURL == "" {
		baseURL = fallback
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg)
}

// chatCompletion runs an OpenAI-format chat completion and returns the first choice.
func chatCompletion(ctx context.Context, c *openai.Client, req ChatRequest, prefix string) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	creq := openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  msgs,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature != nil {
		creq.Temperature = *req.Temperature
	}

	resp, err := c.CreateChatCompletion(ctx, creq)
	if err != nil {
		return "", describeOpenAIError(prefix, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty response choices", prefix)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func listModels(ctx context.Context, c *openai.Client, prefix string) ([]string, error) {
	list, err := c.ListModels(ctx)
	if err != nil {
		return nil, describeOpenAIError(prefix, err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func describeOpenAIError(prefix string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: API error (status %d): %s: %w", prefix, apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%s: unexpected status %d: %w", prefix, reqErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("%s: request: %w", prefix, err)
}
