// Package config holds all taskflow client configuration. Settings live in
// ~/.taskflow/config.yaml; a handful of environment variables override the
// file for scripting and CI use.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all taskflow configuration.
type Config struct {
	// API configures the backend facade.
	API APIConfig `yaml:"api"`

	// Session configures durable session storage.
	Session SessionConfig `yaml:"session"`

	// UI configures interactive behavior.
	UI UIConfig `yaml:"ui"`

	// Logging configures the client log file.
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the backend facade client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// RequestTimeout parses the configured timeout, falling back to 30s on a
// missing or malformed value.
func (a APIConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// SessionConfig configures where the durable session (token + principal)
// lives between runs.
type SessionConfig struct {
	File string `yaml:"file"`
}

// UIConfig configures interactive behavior.
type UIConfig struct {
	// SuccessDisplayMS is how long a form's success notice stays visible
	// before the form auto-dismisses and resets. Not derived from any
	// business rule; kept configurable on purpose.
	SuccessDisplayMS int `yaml:"success_display_ms"`

	// Theme selects the color scheme: light, dark, or auto.
	Theme string `yaml:"theme"`
}

// SuccessDisplay returns the success-notice duration.
func (u UIConfig) SuccessDisplay() time.Duration {
	if u.SuccessDisplayMS <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(u.SuccessDisplayMS) * time.Millisecond
}

// LoggingConfig configures the client's log file. The TUI owns stdout, so
// logs always go to a file.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"`
}

// DefaultDir returns the taskflow dot-directory under the user's home.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskflow"
	}
	return filepath.Join(home, ".taskflow")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8800/api",
			Timeout: "30s",
		},
		Session: SessionConfig{
			File: filepath.Join(dir, "session.json"),
		},
		UI: UIConfig{
			SuccessDisplayMS: 1500,
			Theme:            "auto",
		},
		Logging: LoggingConfig{
			Debug: false,
			File:  filepath.Join(dir, "taskflow.log"),
		},
	}
}

// Load reads configuration from a YAML file, returning defaults when the
// file does not exist. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file, creating the directory if
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TASKFLOW_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TASKFLOW_SESSION_FILE"); v != "" {
		c.Session.File = v
	}
	if v := os.Getenv("TASKFLOW_DEBUG"); v == "1" || v == "true" {
		c.Logging.Debug = true
	}
}
