package provider

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"OpenAI", KindOpenAI},
		{"openai", KindOpenAI},
		{"Ollama", KindOllama},
		{" ollama ", KindOllama},
		{"LMStudio", KindLMStudio},
		{"lm-studio", KindLMStudio},
		{"LM Studio", KindLMStudio},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if err != nil {
				t.Fatalf("ParseKind: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseKindUnknown(t *testing.T) {
	for _, name := range []string{"", "claude", "gemini"} {
		if _, err := ParseKind(name); !errors.Is(err, ErrUnknownProvider) {
			t.Errorf("%q: got %v, want ErrUnknownProvider", name, err)
		}
	}
}

func TestKindLocal(t *testing.T) {
	if KindOpenAI.Local() {
		t.Error("openai should not be local")
	}
	if !KindOllama.Local() || !KindLMStudio.Local() {
		t.Error("ollama and lmstudio should be local")
	}
}

func TestNew(t *testing.T) {
	for _, k := range Kinds {
		p, err := New(k, Options{APIKey: "sk-test"})
		if err != nil {
			t.Fatalf("New(%q): %v", k, err)
		}
		if p.Kind() != k {
			t.Errorf("kind: got %q, want %q", p.Kind(), k)
		}
	}

	if _, err := New(Kind("claude"), Options{}); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("got %v, want ErrUnknownProvider", err)
	}

	p, _ := New(KindOpenAI, Options{APIKey: "sk-test"})
	if op := p.(*OpenAIProvider); op.APIKey != "sk-test" {
		t.Errorf("api key not passed through: %q", op.APIKey)
	}
}
