// Package prompt holds the named system prompts used by transformations.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// ErrUnknownPrompt is returned when a name is not in the library.
var ErrUnknownPrompt = errors.New("unknown prompt")

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Library maps prompt names to templates with {name} placeholders.
type Library struct {
	templates map[string]string
}

// Default returns the built-in prompts.
func Default() (*Library, error) {
	return Parse(defaultPrompts)
}

// Parse reads a YAML mapping of name to template.
func Parse(data []byte) (*Library, error) {
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("prompt: parse yaml: %w", err)
	}
	lib := &Library{templates: make(map[string]string, len(m))}
	for name, tmpl := range m {
		lib.templates[name] = strings.TrimSpace(tmpl)
	}
	return lib, nil
}

// Load returns the built-in prompts overlaid with the file at path.
// An empty path returns the built-ins alone.
func Load(path string) (*Library, error) {
	lib, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return lib, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt: read file: %w", err)
	}
	user, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for name, tmpl := range user.templates {
		lib.templates[name] = tmpl
	}
	return lib, nil
}

// Names lists the prompt names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Template returns the raw template for name.
func (l *Library) Template(name string) (string, bool) {
	t, ok := l.templates[name]
	return t, ok
}

// Render fills the named template with values.
func (l *Library) Render(name string, values map[string]string) (string, error) {
	tmpl, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
	return Fill(tmpl, values), nil
}

// Fill replaces each {key} in tmpl with values[key]. Placeholders without a
// value are left as they are.
func Fill(tmpl string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := values[key]; ok {
			return v
		}
		return m
	})
}
