package main

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var defaultSamples []byte

// Sample is one text sent to the transform endpoint.
type Sample struct {
	Name   string            `yaml:"name"`
	Text   string            `yaml:"text"`
	Style  string            `yaml:"style,omitempty"`
	Prompt string            `yaml:"prompt,omitempty"`
	Values map[string]string `yaml:"values,omitempty"`
}

// SampleSet holds timing samples and quality samples.
type SampleSet struct {
	Timing  []Sample `yaml:"timing"`
	Quality []Sample `yaml:"quality"`
}

// loadSamples reads the set at path, or the embedded set when path is empty.
func loadSamples(path string) (SampleSet, error) {
	data := defaultSamples
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return SampleSet{}, fmt.Errorf("samples: read file: %w", err)
		}
	}

	var set SampleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return SampleSet{}, fmt.Errorf("samples: parse yaml: %w", err)
	}
	if len(set.Timing) == 0 && len(set.Quality) == 0 {
		return SampleSet{}, fmt.Errorf("samples: no samples in set")
	}
	return set, nil
}
