package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrUnknownProvider is returned when generator.provider names no supported backend.
var ErrUnknownProvider = errors.New("unknown provider")

// Supported generator backends.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// Child transports.
const (
	TransportLocal = "local"
	TransportHTTP  = "http"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Walk      WalkConfig      `json:"walk"`
	Generator GeneratorConfig `json:"generator"`
	Providers ProvidersConfig `json:"providers"`
	Metrics   MetricsConfig   `json:"metrics"`
	Log       LogConfig       `json:"log"`
}

type ServerConfig struct {
	Host string `env:"PREDICTREE_SERVER_HOST" json:"host"`
	Port int    `env:"PREDICTREE_SERVER_PORT" json:"port"`
	// Path of the walk ingress.
	Path string `env:"PREDICTREE_SERVER_PATH" json:"path"`
	// MaxBodyBytes caps a request payload.
	MaxBodyBytes int64 `env:"PREDICTREE_SERVER_MAX_BODY_BYTES" json:"max_body_bytes"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type WalkConfig struct {
	MaxBreadth          int    `env:"PREDICTREE_WALK_MAX_BREADTH"           json:"max_breadth"`
	MaxDepth            int    `env:"PREDICTREE_WALK_MAX_DEPTH"             json:"max_depth"`
	GenerateConcurrency int    `env:"PREDICTREE_WALK_GENERATE_CONCURRENCY"  json:"generate_concurrency"`
	Transport           string `env:"PREDICTREE_WALK_TRANSPORT"             json:"transport"`
	SelfURL             string `env:"PREDICTREE_WALK_SELF_URL"              json:"self_url,omitempty"`
	ChildTimeoutSeconds int    `env:"PREDICTREE_WALK_CHILD_TIMEOUT_SECONDS" json:"child_timeout_seconds"`
}

// ChildTimeout returns the per-child call timeout; zero means none.
func (w WalkConfig) ChildTimeout() time.Duration {
	return time.Duration(w.ChildTimeoutSeconds) * time.Second
}

type GeneratorConfig struct {
	Provider    string   `env:"PREDICTREE_GENERATOR_PROVIDER"    json:"provider"`
	Model       string   `env:"PREDICTREE_GENERATOR_MODEL"       json:"model,omitempty"`
	MaxTokens   int      `env:"PREDICTREE_GENERATOR_MAX_TOKENS"  json:"max_tokens"`
	Temperature *float64 `env:"PREDICTREE_GENERATOR_TEMPERATURE" json:"temperature,omitempty"`
	// RPM limits model calls per minute across a whole walk; zero disables it.
	RPM    int      `env:"PREDICTREE_GENERATOR_RPM"    json:"rpm"`
	Angles []string `env:"PREDICTREE_GENERATOR_ANGLES" json:"angles,omitempty" envSeparator:"|"`
}

type ProvidersConfig struct {
	Anthropic ProviderConfig `envPrefix:"PREDICTREE_PROVIDERS_ANTHROPIC_" json:"anthropic"`
	OpenAI    ProviderConfig `envPrefix:"PREDICTREE_PROVIDERS_OPENAI_"    json:"openai"`
	Gemini    ProviderConfig `envPrefix:"PREDICTREE_PROVIDERS_GEMINI_"    json:"gemini"`
}

type ProviderConfig struct {
	APIKey  string `env:"API_KEY"  json:"api_key"`
	APIBase string `env:"API_BASE" json:"api_base,omitempty"`
}

type MetricsConfig struct {
	Enabled bool   `env:"PREDICTREE_METRICS_ENABLED" json:"enabled"`
	Path    string `env:"PREDICTREE_METRICS_PATH"    json:"path"`
}

type LogConfig struct {
	Level string `env:"PREDICTREE_LOG_LEVEL" json:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8787,
			Path:         "/",
			MaxBodyBytes: 1 << 20,
		},
		Walk: WalkConfig{
			MaxBreadth: 2,
			MaxDepth:   3,
			Transport:  TransportLocal,
		},
		Generator: GeneratorConfig{
			Provider:  ProviderAnthropic,
			MaxTokens: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadDotEnv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// LoadConfig reads path over the defaults, then applies PREDICTREE_*
// environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks values that would otherwise fail deep inside a walk.
func (c *Config) Validate() error {
	c.Generator.Provider = strings.ToLower(strings.TrimSpace(c.Generator.Provider))
	if !slices.Contains([]string{ProviderAnthropic, ProviderOpenAI, ProviderGemini}, c.Generator.Provider) {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Generator.Provider)
	}

	switch c.Walk.Transport {
	case TransportLocal:
	case TransportHTTP:
		if c.Walk.SelfURL == "" {
			return errors.New("walk.self_url is required with the http transport")
		}
	default:
		return fmt.Errorf("walk.transport: unsupported value %q", c.Walk.Transport)
	}

	switch {
	case c.Walk.MaxBreadth < 0:
		return errors.New("walk.max_breadth must be >= 0")
	case c.Walk.MaxDepth < 0:
		return errors.New("walk.max_depth must be >= 0")
	case c.Walk.ChildTimeoutSeconds < 0:
		return errors.New("walk.child_timeout_seconds must be >= 0")
	case c.Generator.MaxTokens <= 0:
		return errors.New("generator.max_tokens must be > 0")
	case c.Generator.RPM < 0:
		return errors.New("generator.rpm must be >= 0")
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// SelectedProvider returns the credentials of the configured generator backend.
func (c *Config) SelectedProvider() ProviderConfig {
	switch c.Generator.Provider {
	case ProviderOpenAI:
		return c.Providers.OpenAI
	case ProviderGemini:
		return c.Providers.Gemini
	default:
		return c.Providers.Anthropic
	}
}

// ExpandHome resolves a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
