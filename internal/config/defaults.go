package config

import "github.com/hyperjump/storefront/internal/models"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/storefront/catalog.db"
	}
	cfg.Search.Weights.ApplyDefaults()
	if cfg.Search.DebounceMS == 0 {
		cfg.Search.DebounceMS = 300
	}
	if cfg.Search.MinQueryLength == 0 {
		cfg.Search.MinQueryLength = 2
	}
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 6
	}
	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 400
	}
	for i := range cfg.Collections {
		if cfg.Collections[i].Kind == "" {
			cfg.Collections[i].Kind = models.KindPost
		}
	}
}
