// Package config reads the application configuration from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Config holds the application configuration.
type Config struct {
	Backend       string `env:"ADVENTURE_BACKEND" env-default:"gemini"`
	ModelID       string `env:"ADVENTURE_MODEL" env-default:"gemini-2.5-flash"`
	WorldFile     string `env:"ADVENTURE_WORLD"`
	LogLevel      string `env:"ADVENTURE_LOG_LEVEL" env-default:"info"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
}

// Load reads the configuration from environment variables and checks that
// the selected backend has its API key set.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	switch cfg.Backend {
	case BackendGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
	case BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("unknown backend %q (want %q or %q)", cfg.Backend, BackendGemini, BackendOpenAI)
	}
	return &cfg, nil
}
