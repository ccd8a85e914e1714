package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind identifies one of the supported provider variants.
type Kind string

const (
	KindOpenAI   Kind = "openai"
	KindOllama   Kind = "ollama"
	KindLMStudio Kind = "lmstudio"
)

// Kinds lists every variant in display order.
var Kinds = []Kind{KindOpenAI, KindOllama, KindLMStudio}

// ErrUnknownProvider is returned by ParseKind for names outside the closed set.
var ErrUnknownProvider = errors.New("unknown provider")

// ParseKind maps a caller-supplied name ("OpenAI", "ollama", "lm-studio", ...) to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return KindOpenAI, nil
	case "ollama":
		return KindOllama, nil
	case "lmstudio", "lm-studio", "lm studio":
		return KindLMStudio, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// Local reports whether the variant talks to an inference server on this machine.
func (k Kind) Local() bool {
	return k == KindOllama || k == KindLMStudio
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat-completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the provider-neutral chat-completion input.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float32
	MaxTokens   int
}

// Provider is the contract every LLM backend implements.
type Provider interface {
	Name() string
	Kind() Kind
	Complete(ctx context.Context, req ChatRequest) (string, error)
	ListModels(ctx context.Context) ([]string, error)
	Available() bool
}

// Options carries the connection settings for one provider instance.
type Options struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// New builds the provider for kind. An empty BaseURL uses the variant's default.
func New(kind Kind, opts Options) (Provider, error) {
	switch kind {
	case KindOpenAI:
		return &OpenAIProvider{BaseURL: opts.BaseURL, APIKey: opts.APIKey, Client: opts.Client}, nil
	case KindOllama:
		return &OllamaProvider{BaseURL: opts.BaseURL, Client: opts.Client}, nil
	case KindLMStudio:
		return &LMStudioProvider{BaseURL: opts.BaseURL, Client: opts.Client}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, kind)
	}
}
