// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists scholar's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/scholar-tui/internal/util"
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config holds all user-tunable settings. Precedence: built-in defaults,
// then the config file, then SCHOLAR_* environment variables.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	History HistoryConfig `toml:"history"`
	UI      UIConfig      `toml:"ui"`
}

// BackendConfig controls how the client reaches the Scholar backend.
type BackendConfig struct {
	// URL is the API root (default: http://127.0.0.1:8000/api)
	URL string `toml:"url"`

	// TimeoutSeconds for requests (default: 60)
	TimeoutSeconds int `toml:"timeout_seconds"`

	// HealthIntervalSeconds between status-bar health probes (default: 15)
	HealthIntervalSeconds int `toml:"health_interval_seconds"`

	// LogRequests prints request/response lines to stderr when true
	LogRequests bool `toml:"log_requests"`
}

// HistoryConfig controls the local transcript archive.
type HistoryConfig struct {
	// Enabled turns local archiving on (default: true)
	Enabled bool `toml:"enabled"`

	// Dir overrides the archive location (default: ~/.scholar/history)
	Dir string `toml:"dir"`

	// MaxSessions bounds the archive; oldest are evicted (default: 100)
	MaxSessions int `toml:"max_sessions"`
}

// UIConfig controls presentation.
type UIConfig struct {
	// Theme is "dark", "light", or "auto" (default: auto)
	Theme string `toml:"theme"`

	// ShowSources lists citations under assistant messages (default: true)
	ShowSources bool `toml:"show_sources"`
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:                   "http://127.0.0.1:8000/api",
			TimeoutSeconds:        60,
			HealthIntervalSeconds: 15,
		},
		History: HistoryConfig{
			Enabled:     true,
			MaxSessions: 100,
		},
		UI: UIConfig{
			Theme:       "auto",
			ShowSources: true,
		},
	}
}

// Dir returns the scholar config directory (~/.scholar).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".scholar"), nil
}

// Path returns the config file location (~/.scholar/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, fills defaults, and applies env overrides.
// A missing file is not an error; defaults plus env apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit path, used by tests and --config.
// Decoding starts from the defaults so booleans like history.enabled keep
// their default when the file omits them.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// No file: defaults and env only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults replaces zero values with the built-in defaults.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Backend.URL == "" {
		c.Backend.URL = def.Backend.URL
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = def.Backend.TimeoutSeconds
	}
	if c.Backend.HealthIntervalSeconds == 0 {
		c.Backend.HealthIntervalSeconds = def.Backend.HealthIntervalSeconds
	}
	if c.History.Dir == "" {
		if dir, err := Dir(); err == nil {
			c.History.Dir = filepath.Join(dir, "history")
		}
	}
	if c.History.MaxSessions == 0 {
		c.History.MaxSessions = def.History.MaxSessions
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// ApplyEnvOverrides applies SCHOLAR_* environment variables on top of the
// file values. Env always wins.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SCHOLAR_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("SCHOLAR_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Backend.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("SCHOLAR_HISTORY_DIR"); v != "" {
		c.History.Dir = v
	}
	if v := os.Getenv("SCHOLAR_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend.url must start with http:// or https://, got %q", c.Backend.URL)
	}
	if c.Backend.TimeoutSeconds < 1 {
		return fmt.Errorf("backend.timeout_seconds must be at least 1, got %d", c.Backend.TimeoutSeconds)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light, or auto, got %q", c.UI.Theme)
	}
	if c.History.MaxSessions < 1 {
		return fmt.Errorf("history.max_sessions must be at least 1, got %d", c.History.MaxSessions)
	}
	return nil
}

// Timeout returns the backend timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// HealthInterval returns the probe interval as a duration.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.Backend.HealthIntervalSeconds) * time.Second
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the config to its default path atomically with 0600
// permissions; the file may later hold a backend URL with credentials.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo is Save with an explicit path.
func (c *Config) SaveTo(path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, []byte(sb.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
