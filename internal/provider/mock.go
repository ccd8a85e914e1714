package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockProvider returns simulated responses with a configurable delay.
// Used for development and testing without a real LLM backend.
type MockProvider struct {
	Delay   time.Duration
	Variant Kind
	Models  []string

	mu   sync.Mutex
	last ChatRequest
}

func (m *MockProvider) Name() string { return "Mock" }

func (m *MockProvider) Kind() Kind {
	if m.Variant == "" {
		return KindOpenAI
	}
	return m.Variant
}

func (m *MockProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	m.mu.Lock()
	m.last = req
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", fmt.Errorf("mock: %w", ctx.Err())
		}
	}

	var text string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			text = req.Messages[i].Content
			break
		}
	}

	out := strings.TrimSpace(text)
	if len(out) > 0 && out[0] >= 'a' && out[0] <= 'z' {
		out = strings.ToUpper(out[:1]) + out[1:]
	}
	return out, nil
}

func (m *MockProvider) ListModels(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mock: %w", err)
	}
	if len(m.Models) == 0 {
		return []string{"mock"}, nil
	}
	models := append([]string(nil), m.Models...)
	sort.Strings(models)
	return models, nil
}

func (m *MockProvider) Available() bool { return true }

// LastRequest returns the most recent request passed to Complete.
func (m *MockProvider) LastRequest() ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
