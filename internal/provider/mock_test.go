package provider

import (
	"context"
	"strings"
	"testing"
	"time"
)

func userRequest(text string) ChatRequest {
	return ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "system prompt"},
			{Role: RoleUser, Content: text},
		},
	}
}

func TestMockProviderComplete(t *testing.T) {
	m := &MockProvider{}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"capitalizes first letter", "hello world", "Hello world"},
		{"trims whitespace", "  hello world  ", "Hello world"},
		{"already capitalized", "Hello world", "Hello world"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Complete(context.Background(), userRequest(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockProviderRecordsRequest(t *testing.T) {
	m := &MockProvider{}
	req := userRequest("hi")
	req.Model = "gpt-test"

	if _, err := m.Complete(context.Background(), req); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	last := m.LastRequest()
	if last.Model != "gpt-test" || len(last.Messages) != 2 {
		t.Errorf("last request: got %+v", last)
	}
}

func TestMockProviderContextCancel(t *testing.T) {
	m := &MockProvider{Delay: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, userRequest("hello"))
	if err == nil {
		t.Error("expected error on cancelled context, got nil")
	}
}

func TestMockProviderAvailable(t *testing.T) {
	m := &MockProvider{}
	if !m.Available() {
		t.Error("mock provider should always be available")
	}
}

func TestMockProviderKind(t *testing.T) {
	if k := (&MockProvider{}).Kind(); k != KindOpenAI {
		t.Errorf("default kind: got %q, want %q", k, KindOpenAI)
	}
	if k := (&MockProvider{Variant: KindOllama}).Kind(); k != KindOllama {
		t.Errorf("variant kind: got %q, want %q", k, KindOllama)
	}
}

func TestMockProviderListModels(t *testing.T) {
	got, err := (&MockProvider{}).ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(got) != 1 || got[0] != "mock" {
		t.Errorf("got %v, want [mock]", got)
	}
}

func TestMockProviderListModelsSortedCopy(t *testing.T) {
	m := &MockProvider{Models: []string{"zephyr", "gemma", "mistral"}}

	got, err := m.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if strings.Join(got, ",") != "gemma,mistral,zephyr" {
		t.Errorf("got %v, want sorted", got)
	}

	got[0] = "changed"
	if m.Models[0] != "zephyr" {
		t.Errorf("caller slice mutated: %v", m.Models)
	}
}
