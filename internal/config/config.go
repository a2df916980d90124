// Package config loads prompt-canvas settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the generateContent endpoint used when none is configured.
const DefaultAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// Config is the top-level configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	LLM     LLMConfig     `yaml:"llm"`
	Server  ServerConfig  `yaml:"server"`
	Remote  RemoteConfig  `yaml:"remote"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LLMConfig configures the generative model client.
type LLMConfig struct {
	APIURL            string               `yaml:"api_url"`
	APIKey            string               `yaml:"api_key"`
	Timeout           time.Duration        `yaml:"timeout"`
	RequestsPerMinute int                  `yaml:"requests_per_minute"`
	CircuitBreaker    CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig trips the model client after consecutive failures.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RemoteConfig points the CLI shell at a running server instead of local services.
type RemoteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// homeDir returns $HOME/.prompt-canvas, or "." when $HOME is unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".prompt-canvas")
}

// DefaultPath returns the config file location: $PROMPT_CANVAS_CONFIG or ~/.prompt-canvas/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("PROMPT_CANVAS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), "config.yaml")
}

// Defaults returns a Config with every field set to its default.
func Defaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: filepath.Join(homeDir(), "canvas.db"),
		},
		LLM: LLMConfig{
			APIURL:            DefaultAPIURL,
			Timeout:           60 * time.Second,
			RequestsPerMinute: 30,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Timeout:     30 * time.Second,
			},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads path over Defaults, then applies environment overrides and
// validates. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	ApplyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides replaces config values with PROMPT_CANVAS_* environment
// variables when set. GEMINI_API_KEY is used when no key is configured.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROMPT_CANVAS_DB"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("PROMPT_CANVAS_API_URL"); v != "" {
		cfg.LLM.APIURL = v
	}
	if v := os.Getenv("PROMPT_CANVAS_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("PROMPT_CANVAS_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PROMPT_CANVAS_REMOTE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("PROMPT_CANVAS_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("PROMPT_CANVAS_LOG_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("PROMPT_CANVAS_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("PROMPT_CANVAS_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}
