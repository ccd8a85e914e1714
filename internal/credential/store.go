// Package credential persists the provider API key and resolves it at request time.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDirName   = "config"
	credentialsFile = "credentials.json"
)

var (
	// ErrNotFound means no key has been saved.
	ErrNotFound = errors.New("API key not found. Please set your OpenAI API key")
	// ErrEmptyKey rejects saving a blank key.
	ErrEmptyKey = errors.New("API key is empty")
)

type credentialsDoc struct {
	OpenAIAPIKey string `json:"openai_api_key"`
}

// Store reads and writes <dataDir>/config/credentials.json.
// There is no locking: the last writer wins.
type Store struct {
	dataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Path returns the location of the credentials file.
func (s *Store) Path() string {
	return filepath.Join(s.dataDir, configDirName, credentialsFile)
}

// Save writes key, creating the config directory if needed.
func (s *Store) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}

	dir := filepath.Dir(s.Path())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credential: create config directory: %w", err)
	}

	data, err := json.Marshal(credentialsDoc{OpenAIAPIKey: key})
	if err != nil {
		return fmt.Errorf("credential: marshal: %w", err)
	}

	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("credential: write credentials file: %w", err)
	}
	return nil
}

// Load returns the saved key, or ErrNotFound when there is none.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("credential: read credentials file: %w", err)
	}

	var doc credentialsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("credential: parse credentials file: %w", err)
	}
	if doc.OpenAIAPIKey == "" {
		return "", ErrNotFound
	}
	return doc.OpenAIAPIKey, nil
}

// Clear deletes the credentials file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credential: remove credentials file: %w", err)
	}
	return nil
}
