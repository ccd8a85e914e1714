package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"github.com/mlorentedev/sidehustler/internal/provider"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SIDEHUSTLER_"

// Config holds all application configuration.
type Config struct {
	Port    int    `yaml:"port" env:"PORT"`
	Bind    string `yaml:"bind" env:"BIND"`
	DataDir string `yaml:"data_dir" env:"DATA_DIR"`

	EnvFile   string `yaml:"env_file" env:"ENV_FILE"`
	APIKeyEnv string `yaml:"api_key_env" env:"API_KEY_ENV"`

	DefaultProvider string `yaml:"default_provider" env:"DEFAULT_PROVIDER"`
	OpenAIURL       string `yaml:"openai_url" env:"OPENAI_URL"`
	OpenAIModel     string `yaml:"openai_model" env:"OPENAI_MODEL"`
	OllamaURL       string `yaml:"ollama_url" env:"OLLAMA_URL"`
	OllamaModel     string `yaml:"ollama_model" env:"OLLAMA_MODEL"`
	LMStudioURL     string `yaml:"lmstudio_url" env:"LMSTUDIO_URL"`
	LMStudioModel   string `yaml:"lmstudio_model" env:"LMSTUDIO_MODEL"`

	PromptsPath    string        `yaml:"prompts_path" env:"PROMPTS_PATH"`
	MaxTextLength  int           `yaml:"max_text_length" env:"MAX_TEXT_LENGTH"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	RateLimit      int           `yaml:"rate_limit" env:"RATE_LIMIT"`

	Token       string   `yaml:"token" env:"TOKEN"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	LogLevel    string   `yaml:"log_level" env:"LOG_LEVEL"`
}

// DesktopOrigins are the webview origins of the desktop shell on each
// platform, plus its dev server.
var DesktopOrigins = []string{
	"tauri://localhost",
	"http://tauri.localhost",
	"http://localhost:1420",
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Port:            8765,
		Bind:            "127.0.0.1",
		DataDir:         defaultDataDir(),
		EnvFile:         ".env",
		APIKeyEnv:       "OPENAI_API_KEY",
		DefaultProvider: string(provider.KindOpenAI),
		OpenAIURL:       "https://api.openai.com/v1",
		OpenAIModel:     "gpt-4.1-nano-2025-04-14",
		OllamaURL:       "http://localhost:11434",
		OllamaModel:     "llama3.2",
		LMStudioURL:     "http://localhost:1234/v1",
		MaxTextLength:   10000,
		RequestTimeout:  120 * time.Second,
		RateLimit:       30,
		CORSOrigins:     append([]string(nil), DesktopOrigins...),
		LogLevel:        "info",
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".sidehustler"
	}
	return filepath.Join(dir, "sidehustler")
}

// Load loads configuration from a YAML file (if path is non-empty), then applies
// SIDEHUSTLER_* environment overrides. An empty path returns defaults + env overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if _, err := provider.ParseKind(c.DefaultProvider); err != nil {
		return fmt.Errorf("config: default_provider: %w", err)
	}
	if c.MaxTextLength <= 0 {
		return fmt.Errorf("config: invalid max_text_length %d", c.MaxTextLength)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: invalid request_timeout %s", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: invalid rate_limit %d", c.RateLimit)
	}
	for _, o := range c.CORSOrigins {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("config: empty entry in cors_origins")
		}
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Addr is the listen address for the HTTP API.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// ParseLogLevel maps a log_level value to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: invalid log_level %q", s)
	}
}
