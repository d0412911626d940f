// Package config provides configuration loading and validation for the CLI
// and server. Configuration is an explicit struct passed into constructors,
// never ambient process state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default values applied when neither config file, environment nor flags
// supply one.
const (
	DefaultPort            = 8000
	DefaultSessionDir      = "sessions"
	DefaultRefreshInterval = 5
)

// Config represents the skillbridge configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment.
type Config struct {
	// LLM
	APIKey string `json:"api_key,omitempty"` // Gemini API key (env GEMINI_API_KEY wins if unset here)
	Model  string `json:"model,omitempty"`   // Override the default Gemini model

	// Persistence
	SessionDir  string `json:"session_dir,omitempty"`  // Directory for file-based session storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL; enables the Postgres session store

	// Tutoring
	RefreshInterval int `json:"refresh_interval,omitempty"` // Turns between web context refreshes

	// Server
	Port int `json:"port,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Headless browser fallback for SPA job postings
	Verbose    bool `json:"verbose,omitempty"`
	LogJSON    bool `json:"log_json,omitempty"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills API key and database URL from the environment when not
// already set. GEMINI_API_KEY and DATABASE_URL are the recognized variables.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

// ApplyDefaults fills zero-valued fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.SessionDir == "" {
		c.SessionDir = DefaultSessionDir
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: api_key is required (set GEMINI_API_KEY or api_key)")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.RefreshInterval < 1 {
		return fmt.Errorf("config error: refresh_interval must be >= 1")
	}
	return nil
}
