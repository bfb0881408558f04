// Package config provides application-wide configuration (Task 1.2).
// Values come from an optional YAML file overlaid by environment variables;
// every field has a safe default so the binary runs locally with no setup.
// Provider API keys deliberately have no default.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the agent service.
type Config struct {
	// Server
	HTTPAddr  string `yaml:"http_addr"`  // HTTP_ADDR — default: ":8080"
	DBPath    string `yaml:"db_path"`    // DB_PATH — default: "mindsdb.db"
	JWTSecret string `yaml:"jwt_secret"` // JWT_SECRET — default: dev-only secret

	// LLM providers
	OpenAIAPIKey  string `yaml:"openai_api_key"`  // OPENAI_API_KEY — no default
	OpenAIBaseURL string `yaml:"openai_base_url"` // OPENAI_BASE_URL — default: "https://api.openai.com/v1"

	// Web search
	SerperAPIKey  string `yaml:"serper_api_key"`  // SERPER_API_KEY — no default
	SerperBaseURL string `yaml:"serper_base_url"` // SERPER_BASE_URL — default: "https://google.serper.dev"
}

const (
	envKeyConfigFile    = "MINDSDB_CONFIG"
	envKeyHTTPAddr      = "HTTP_ADDR"
	envKeyDBPath        = "DB_PATH"
	envKeyJWTSecret     = "JWT_SECRET"
	envKeyOpenAIAPIKey  = "OPENAI_API_KEY"
	envKeyOpenAIBaseURL = "OPENAI_BASE_URL"
	envKeySerperAPIKey  = "SERPER_API_KEY"
	envKeySerperBaseURL = "SERPER_BASE_URL"
)

// Load reads configuration in precedence order: defaults, then the YAML file
// named by MINDSDB_CONFIG (if set), then environment variables.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      ":8080",
		DBPath:        "mindsdb.db",
		JWTSecret:     "dev-secret-change-in-production",
		OpenAIBaseURL: "https://api.openai.com/v1",
		SerperBaseURL: "https://google.serper.dev",
	}

	if path := os.Getenv(envKeyConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	overlayEnv(&cfg.HTTPAddr, envKeyHTTPAddr)
	overlayEnv(&cfg.DBPath, envKeyDBPath)
	overlayEnv(&cfg.JWTSecret, envKeyJWTSecret)
	overlayEnv(&cfg.OpenAIAPIKey, envKeyOpenAIAPIKey)
	overlayEnv(&cfg.OpenAIBaseURL, envKeyOpenAIBaseURL)
	overlayEnv(&cfg.SerperAPIKey, envKeySerperAPIKey)
	overlayEnv(&cfg.SerperBaseURL, envKeySerperBaseURL)

	return cfg, nil
}

// overlayEnv replaces *dst with the env value when the variable is set.
func overlayEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
