// Package shared provides process-wide configuration shared across modules.
package shared

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds process-wide settings.
type Config struct {
	// Warnings controls whether redundant wiring operations (such as
	// re-enabling an already active self-connection) log a warning.
	// Cosmetic only, never alters behavior.
	Warnings bool `json:"warnings" yaml:"warnings"`

	// Store configures the node-record store used by the CLI.
	Store StoreConfig `json:"store" yaml:"store"`
}

// StoreConfig selects and parameterizes a node-record store backend.
type StoreConfig struct {
	// Backend is "sqlite", "postgres" or "memory".
	Backend string `json:"backend" yaml:"backend"`

	// Path is the SQLite database file. Empty or ":memory:" keeps records
	// in memory.
	Path string `json:"path" yaml:"path"`

	// DSN is the PostgreSQL connection string for the postgres backend.
	DSN string `json:"dsn" yaml:"dsn"`
}

// DefaultConfig returns the default process configuration.
func DefaultConfig() *Config {
	return &Config{
		Warnings: true,
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    "./carrot.db",
		},
	}
}

// LoadConfig reads a YAML config file, filling missing values with defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = "sqlite"
	}
	if c.Store.Backend == "sqlite" && c.Store.Path == "" {
		c.Store.Path = "./carrot.db"
	}
}

var (
	activeMu sync.RWMutex
	active   = DefaultConfig()
)

// Active returns the process-wide configuration.
func Active() *Config {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return active
}

// SetActive replaces the process-wide configuration. Nil resets to defaults.
func SetActive(cfg *Config) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	active = cfg
}

// WarningsEnabled reports whether cosmetic warnings should be logged.
func WarningsEnabled() bool {
	return Active().Warnings
}
