// Package app wires the credential, provider and transform layers into the
// command set shared by the HTTP API and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mlorentedev/sidehustler/internal/config"
	"github.com/mlorentedev/sidehustler/internal/credential"
	"github.com/mlorentedev/sidehustler/internal/notify"
	"github.com/mlorentedev/sidehustler/internal/prompt"
	"github.com/mlorentedev/sidehustler/internal/provider"
	"github.com/mlorentedev/sidehustler/internal/transform"
)

// App is the backend behind every front-end command.
type App struct {
	Store       *credential.Store
	Resolver    *credential.Resolver
	Transformer *transform.Service
	Prompts     *prompt.Library
	Sink        notify.Sink
}

// New builds an App from cfg. With mock set, every provider variant is
// replaced by provider.MockProvider and no API key is required.
func New(cfg config.Config, sink notify.Sink, mock bool) (*App, error) {
	if sink == nil {
		sink = notify.Discard{}
	}

	prompts, err := prompt.Load(cfg.PromptsPath)
	if err != nil {
		return nil, err
	}

	kind, err := provider.ParseKind(cfg.DefaultProvider)
	if err != nil {
		return nil, fmt.Errorf("app: default provider: %w", err)
	}

	store := credential.NewStore(cfg.DataDir)
	resolver := &credential.Resolver{
		EnvVar:  cfg.APIKeyEnv,
		EnvFile: cfg.EnvFile,
		Store:   store,
		Sink:    sink,
	}

	svc := &transform.Service{
		Config: transform.Config{
			DefaultProvider: kind,
			Endpoints: map[provider.Kind]string{
				provider.KindOpenAI:   cfg.OpenAIURL,
				provider.KindOllama:   cfg.OllamaURL,
				provider.KindLMStudio: cfg.LMStudioURL,
			},
			Models: map[provider.Kind]string{
				provider.KindOpenAI:   cfg.OpenAIModel,
				provider.KindOllama:   cfg.OllamaModel,
				provider.KindLMStudio: cfg.LMStudioModel,
			},
			MaxTextLength: cfg.MaxTextLength,
			Timeout:       cfg.RequestTimeout,
			Mock:          mock,
		},
		Resolver: resolver,
		Prompts:  prompts,
		Sink:     sink,
	}
	if mock {
		svc.NewProvider = func(kind provider.Kind, _ provider.Options) (provider.Provider, error) {
			return &provider.MockProvider{Variant: kind}, nil
		}
	}

	return &App{
		Store:       store,
		Resolver:    resolver,
		Transformer: svc,
		Prompts:     prompts,
		Sink:        sink,
	}, nil
}

// Greet records a greeting. An empty name greets the World.
func (a *App) Greet(name string) string {
	if name == "" {
		name = "World"
	}
	msg := "Greet command called with name: " + name
	slog.Info("greet", "name", name)
	a.Sink.Notify(notify.LevelInfo, msg)
	return msg
}

// SaveAPIKey persists key in the credential store.
func (a *App) SaveAPIKey(key string) error {
	if err := a.Store.Save(key); err != nil {
		a.Sink.Notify(notify.LevelError, fmt.Sprintf("Failed to save API key: %v", err))
		return err
	}
	a.Sink.Notify(notify.LevelInfo, "API key saved successfully")
	return nil
}

// LoadAPIKey returns the key the next cloud request would use.
func (a *App) LoadAPIKey() (string, error) {
	key, _, err := a.Resolver.Resolve()
	return key, err
}

// APIKeyStatus reports whether a key resolves and from where.
func (a *App) APIKeyStatus() (credential.Status, error) {
	return a.Resolver.Status()
}

// ClearAPIKey removes the saved key. Environment and dotfile keys are untouched.
func (a *App) ClearAPIKey() error {
	if err := a.Store.Clear(); err != nil {
		return err
	}
	a.Sink.Notify(notify.LevelInfo, "API key removed")
	return nil
}

func (a *App) ListModels(ctx context.Context, providerName string) ([]string, error) {
	return a.Transformer.ListModels(ctx, providerName)
}

func (a *App) Transform(ctx context.Context, req transform.Request) (transform.Result, error) {
	return a.Transformer.Transform(ctx, req)
}

func (a *App) Providers() []transform.ProviderStatus {
	return a.Transformer.Providers()
}

func (a *App) PromptNames() []string {
	return a.Prompts.Names()
}
