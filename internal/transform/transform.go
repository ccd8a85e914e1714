// Package transform selects a provider for a caller-supplied name and rewrites text with it.
package transform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mlorentedev/sidehustler/internal/credential"
	"github.com/mlorentedev/sidehustler/internal/metrics"
	"github.com/mlorentedev/sidehustler/internal/notify"
	"github.com/mlorentedev/sidehustler/internal/prompt"
	"github.com/mlorentedev/sidehustler/internal/provider"
)

const defaultInstruction = "Rewrite the following text, keeping its meaning. Output only the rewritten text."

// ValidationError reports a request the service refuses before calling a provider.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// KeyResolver finds the API key for the cloud provider. Lookup must not
// publish notifications.
type KeyResolver interface {
	Resolve() (string, credential.Source, error)
	Lookup() (string, credential.Source, error)
}

// Request is one transform command.
type Request struct {
	Text           string
	Transformation string
	Provider       string
	Model          string
	SystemPrompt   string
	Prompt         string
	PromptValues   map[string]string
	Temperature    *float32
	MaxTokens      int
}

// Result is the rewritten text and what produced it.
type Result struct {
	Text     string
	Provider provider.Kind
	Model    string
	Elapsed  time.Duration
}

// ProviderStatus is the availability of one provider variant.
type ProviderStatus struct {
	Kind      provider.Kind `json:"kind"`
	Name      string        `json:"name"`
	Available bool          `json:"available"`
	Reason    string        `json:"reason,omitempty"`
}

// Config holds per-provider endpoints and defaults.
type Config struct {
	DefaultProvider provider.Kind
	Endpoints       map[provider.Kind]string
	Models          map[provider.Kind]string
	MaxTextLength   int
	Timeout         time.Duration
	// Mock skips key resolution; NewProvider is expected to return stand-ins.
	Mock bool
}

// Service is the transform command entry point.
type Service struct {
	Config   Config
	Resolver KeyResolver
	Prompts  *prompt.Library
	Sink     notify.Sink

	// NewProvider builds the provider for one call. Nil uses provider.New.
	NewProvider func(kind provider.Kind, opts provider.Options) (provider.Provider, error)
}

// Transform sends req.Text to the selected provider and returns its rewrite.
func (s *Service) Transform(ctx context.Context, req Request) (Result, error) {
	if err := s.validate(req.Text); err != nil {
		return Result{}, s.fail(err)
	}

	kind, err := s.kind(req.Provider)
	if err != nil {
		return Result{}, s.fail(err)
	}

	system, err := s.systemPrompt(req)
	if err != nil {
		return Result{}, s.fail(err)
	}

	p, err := s.connect(kind, true)
	if err != nil {
		return Result{}, s.fail(err)
	}

	model := req.Model
	if model == "" {
		model = s.Config.Models[kind]
	}

	chat := provider.ChatRequest{
		Model: model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: system},
			{Role: provider.RoleUser, Content: req.Text},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	chars := utf8.RuneCountInString(req.Text)
	metrics.InputChars.Observe(float64(chars))
	s.notify(notify.LevelInfo, fmt.Sprintf("Transforming %d characters with %s", chars, describe(p, model)))

	start := time.Now()
	out, err := p.Complete(ctx, chat)
	elapsed := time.Since(start)
	metrics.TransformDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())

	if err != nil {
		metrics.TransformsTotal.WithLabelValues(string(kind), "error").Inc()
		return Result{}, s.fail(err)
	}
	metrics.TransformsTotal.WithLabelValues(string(kind), "ok").Inc()

	if s.Sink != nil {
		notify.WithData(s.Sink, notify.LevelInfo,
			fmt.Sprintf("Transformation complete in %dms", elapsed.Milliseconds()),
			notify.Truncate(out, 200))
	}

	return Result{Text: out, Provider: kind, Model: model, Elapsed: elapsed}, nil
}

// ListModels returns the model identifiers offered by the named provider.
func (s *Service) ListModels(ctx context.Context, name string) ([]string, error) {
	kind, err := s.kind(name)
	if err != nil {
		return nil, err
	}
	p, err := s.connect(kind, true)
	if err != nil {
		return nil, err
	}

	models, err := p.ListModels(ctx)
	if err != nil {
		s.notify(notify.LevelError, fmt.Sprintf("Listing %s models failed: %v", p.Name(), err))
		return nil, err
	}
	s.notify(notify.LevelDebug, fmt.Sprintf("%s offers %d models", p.Name(), len(models)))
	return models, nil
}

// Providers probes every variant. The cloud provider is unavailable when no key resolves.
func (s *Service) Providers() []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(provider.Kinds))
	for _, kind := range provider.Kinds {
		st := ProviderStatus{Kind: kind}
		p, err := s.connect(kind, false)
		switch {
		case errors.Is(err, credential.ErrNotConfigured):
			st.Name = displayName(kind)
			st.Reason = "no API key"
		case err != nil:
			st.Name = displayName(kind)
			st.Reason = err.Error()
		default:
			st.Name = p.Name()
			st.Available = p.Available()
			if !st.Available {
				st.Reason = unavailableReason(kind)
			}
		}

		gauge := 0.0
		if st.Available {
			gauge = 1
		}
		metrics.ProviderAvailable.WithLabelValues(string(kind)).Set(gauge)
		statuses = append(statuses, st)
	}
	return statuses
}

func (s *Service) validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Message: "text is required"}
	}
	limit := s.Config.MaxTextLength
	if n := utf8.RuneCountInString(text); limit > 0 && n > limit {
		return &ValidationError{Field: "text", Message: fmt.Sprintf("text too long: %d characters (max %d)", n, limit)}
	}
	return nil
}

func (s *Service) kind(name string) (provider.Kind, error) {
	if strings.TrimSpace(name) == "" {
		if s.Config.DefaultProvider != "" {
			return s.Config.DefaultProvider, nil
		}
		return provider.KindOpenAI, nil
	}
	return provider.ParseKind(name)
}

func (s *Service) systemPrompt(req Request) (string, error) {
	switch {
	case strings.TrimSpace(req.SystemPrompt) != "":
		return req.SystemPrompt, nil
	case req.Prompt != "":
		if s.Prompts == nil {
			return "", fmt.Errorf("%w: %s", prompt.ErrUnknownPrompt, req.Prompt)
		}
		return s.Prompts.Render(req.Prompt, req.PromptValues)
	case strings.TrimSpace(req.Transformation) != "":
		return "Transform the following text using the style: " + strings.TrimSpace(req.Transformation), nil
	default:
		return defaultInstruction, nil
	}
}

// connect resolves the connection settings for kind: the API key for the
// cloud variant, the configured URL for every variant. announce selects
// Resolve over the silent Lookup.
func (s *Service) connect(kind provider.Kind, announce bool) (provider.Provider, error) {
	opts := provider.Options{
		BaseURL: s.Config.Endpoints[kind],
		Client:  &http.Client{Timeout: s.timeout()},
	}

	if !kind.Local() && !s.Config.Mock {
		if s.Resolver == nil {
			return nil, credential.ErrNotConfigured
		}
		resolve := s.Resolver.Lookup
		if announce {
			resolve = s.Resolver.Resolve
		}
		key, _, err := resolve()
		if err != nil {
			return nil, err
		}
		opts.APIKey = key
	}

	build := s.NewProvider
	if build == nil {
		build = provider.New
	}
	return build(kind, opts)
}

func (s *Service) timeout() time.Duration {
	if s.Config.Timeout > 0 {
		return s.Config.Timeout
	}
	return 120 * time.Second
}

func (s *Service) fail(err error) error {
	s.notify(notify.LevelError, fmt.Sprintf("Transformation failed: %v", err))
	return err
}

func (s *Service) notify(level notify.Level, text string) {
	if s.Sink != nil {
		s.Sink.Notify(level, text)
	}
}

func describe(p provider.Provider, model string) string {
	if model == "" {
		return p.Name()
	}
	return fmt.Sprintf("%s (%s)", p.Name(), model)
}

func displayName(kind provider.Kind) string {
	switch kind {
	case provider.KindOpenAI:
		return "OpenAI"
	case provider.KindOllama:
		return "Ollama"
	case provider.KindLMStudio:
		return "LM Studio"
	default:
		return string(kind)
	}
}

func unavailableReason(kind provider.Kind) string {
	switch kind {
	case provider.KindOpenAI:
		return "no API key"
	case provider.KindOllama:
		return "ollama unreachable"
	case provider.KindLMStudio:
		return "lm studio unreachable"
	default:
		return "unavailable"
	}
}
