// Package config provides configuration loading and structs for the storefront server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/internal/ranking"
)

// Config holds all configuration for the application.
type Config struct {
	Debug          bool                `yaml:"debug"`
	Server         ServerConfig        `yaml:"server"`
	Storage        StorageConfig       `yaml:"storage"`
	Search         SearchConfig        `yaml:"search"`
	Certifications map[string][]string `yaml:"certifications,omitempty"`
	Watch          WatchConfig         `yaml:"watch"`
	Collections    []CollectionConfig  `yaml:"collections"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the SQLite catalog used by the import command.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SearchConfig holds scoring weights and search input behaviour.
type SearchConfig struct {
	Weights        ranking.WeightsConfig `yaml:"weights"`
	DebounceMS     int                   `yaml:"debounce_ms"`
	MinQueryLength int                   `yaml:"min_query_length"`
	PageSize       int                   `yaml:"page_size"`
}

// Debounce returns the search debounce delay.
func (s *SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// WatchConfig controls reloading collections when their source files change.
type WatchConfig struct {
	Enabled    *bool `yaml:"enabled"`
	DebounceMS int   `yaml:"debounce_ms"`
}

// EnabledOrDefault returns whether to watch sources; defaults to true when unset.
func (w *WatchConfig) EnabledOrDefault() bool {
	if w.Enabled != nil {
		return *w.Enabled
	}
	return true
}

// Debounce returns the per-file reload debounce.
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// CollectionConfig describes one listing and where its items come from.
type CollectionConfig struct {
	Name   string      `yaml:"name"`
	Kind   models.Kind `yaml:"kind"`
	Source string      `yaml:"source"`
	// Categories maps category keys to display labels, overriding the built-in names.
	Categories map[string]string `yaml:"categories,omitempty"`
}

// Collection returns the named collection.
func (c *Config) Collection(name string) (*CollectionConfig, bool) {
	for i := range c.Collections {
		if c.Collections[i].Name == name {
			return &c.Collections[i], true
		}
	}
	return nil, false
}

// Validate checks collection definitions.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Collections))
	for i, col := range c.Collections {
		if col.Name == "" {
			return fmt.Errorf("collection %d: name is required", i)
		}
		if seen[col.Name] {
			return fmt.Errorf("collection %q: duplicate name", col.Name)
		}
		seen[col.Name] = true
		if col.Source == "" {
			return fmt.Errorf("collection %q: source is required", col.Name)
		}
		if col.Kind != models.KindPost && col.Kind != models.KindProduct {
			return fmt.Errorf("collection %q: unknown kind %q", col.Name, col.Kind)
		}
	}
	return nil
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	for i := range cfg.Collections {
		cfg.Collections[i].Source = expandPath(cfg.Collections[i].Source, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
