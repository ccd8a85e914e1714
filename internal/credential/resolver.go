package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/mlorentedev/sidehustler/internal/notify"
)

// DefaultEnvVar is the variable consulted in the environment and the dotfile.
const DefaultEnvVar = "OPENAI_API_KEY"

// ErrNotConfigured means no source produced a key.
var ErrNotConfigured = errors.New("OpenAI API key not found. Please set your API key in settings")

// Source names where a resolved key came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceDotfile Source = "dotfile"
	SourceConfig  Source = "config"
)

// Status reports whether a key is available without exposing it.
type Status struct {
	Configured bool   `json:"configured"`
	Source     Source `json:"source,omitempty"`
}

// Resolver looks the key up in the environment, then the dotfile, then the Store.
type Resolver struct {
	EnvVar  string
	EnvFile string
	Store   *Store
	Sink    notify.Sink
}

// Resolve returns the first non-empty key and where it was found, announcing
// the source on the Sink.
func (r *Resolver) Resolve() (string, Source, error) {
	return r.resolve(true)
}

// Lookup resolves like Resolve without publishing anything. Status probes
// use it so polling stays silent.
func (r *Resolver) Lookup() (string, Source, error) {
	return r.resolve(false)
}

func (r *Resolver) resolve(announce bool) (string, Source, error) {
	envVar := r.EnvVar
	if envVar == "" {
		envVar = DefaultEnvVar
	}

	if key := os.Getenv(envVar); key != "" {
		r.announce(announce, notify.LevelDebug, "Using API key from environment variable")
		return key, SourceEnv, nil
	}

	if key := r.fromDotfile(envVar, announce); key != "" {
		r.announce(announce, notify.LevelDebug, "Using API key from .env file")
		return key, SourceDotfile, nil
	}

	if r.Store != nil {
		key, err := r.Store.Load()
		switch {
		case err == nil:
			r.announce(announce, notify.LevelDebug, "Using API key from config file")
			return key, SourceConfig, nil
		case !errors.Is(err, ErrNotFound):
			return "", "", err
		}
	}

	return "", "", ErrNotConfigured
}

// Status reports only whether a key exists. It publishes nothing.
func (r *Resolver) Status() (Status, error) {
	_, src, err := r.Lookup()
	if errors.Is(err, ErrNotConfigured) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{Configured: true, Source: src}, nil
}

func (r *Resolver) fromDotfile(envVar string, announce bool) string {
	if r.EnvFile == "" {
		return ""
	}
	vars, err := godotenv.Read(r.EnvFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.announce(announce, notify.LevelWarn, fmt.Sprintf("Ignoring unreadable %s: %v", r.EnvFile, err))
		}
		return ""
	}
	return vars[envVar]
}

func (r *Resolver) announce(on bool, level notify.Level, text string) {
	if on && r.Sink != nil {
		r.Sink.Notify(level, text)
	}
}
