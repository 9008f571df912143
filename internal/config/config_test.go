package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/storefront/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
search:
  weights:
    title: 5
  page_size: 9
certifications:
  recycled: [recycled, upcycled]
collections:
  - name: products
    kind: product
    source: "./site/products.html"
    categories:
      home: "Home Goods"
  - name: blog
    source: "./site/blog.html"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	w := cfg.Search.Weights
	if w.Title != 5 || w.Category != 2 || w.Tags != 2 || w.Excerpt != 1 {
		t.Errorf("weights = %+v", w)
	}
	if cfg.Search.PageSize != 9 || cfg.Search.MinQueryLength != 2 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if got := cfg.Certifications["recycled"]; len(got) != 2 {
		t.Errorf("certifications = %v", cfg.Certifications)
	}

	products, ok := cfg.Collection("products")
	if !ok {
		t.Fatal("products collection missing")
	}
	if products.Kind != models.KindProduct || products.Categories["home"] != "Home Goods" {
		t.Errorf("products = %+v", products)
	}
	wantSource := filepath.Join(filepath.Dir(path), "site", "products.html")
	if products.Source != wantSource {
		t.Errorf("source = %s, want %s", products.Source, wantSource)
	}
	blog, _ := cfg.Collection("blog")
	if blog.Kind != models.KindPost {
		t.Errorf("kind should default to post, got %q", blog.Kind)
	}
	if _, ok := cfg.Collection("nope"); ok {
		t.Error("unknown collection should not be found")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	cfg, err := Load(writeConfig(t, "debug: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_invalidCollections(t *testing.T) {
	tests := map[string]string{
		"missing name":   "collections:\n  - source: a.html\n",
		"missing source": "collections:\n  - name: a\n",
		"duplicate":      "collections:\n  - {name: a, source: a.html}\n  - {name: a, source: b.html}\n",
		"bad kind":       "collections:\n  - {name: a, source: a.html, kind: recipe}\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			if err == nil || !strings.Contains(err.Error(), "invalid config") {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults: %+v", cfg.Server)
	}
	if cfg.Search.Debounce() != 300*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Search.Debounce())
	}
	if cfg.Search.MinQueryLength != 2 || cfg.Search.PageSize != 6 {
		t.Errorf("search defaults: %+v", cfg.Search)
	}
	if w := cfg.Search.Weights; w.Title != 3 || w.Category != 2 || w.Tags != 2 || w.Excerpt != 1 {
		t.Errorf("weights defaults: %+v", w)
	}
	if cfg.Watch.Debounce() != 400*time.Millisecond {
		t.Errorf("watch debounce = %v", cfg.Watch.Debounce())
	}
}

func TestWatchConfig_EnabledOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		w := &WatchConfig{}
		if !w.EnabledOrDefault() {
			t.Error("EnabledOrDefault() = false, want true")
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		w := &WatchConfig{Enabled: &f}
		if w.EnabledOrDefault() {
			t.Error("EnabledOrDefault() = true, want false")
		}
	})
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := &Config{
		Server:      ServerConfig{Host: "localhost", Port: 9090},
		Storage:     StorageConfig{DatabasePath: "/tmp/db"},
		Collections: []CollectionConfig{{Name: "blog", Kind: models.KindPost, Source: "/tmp/blog.html"}},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 || len(loaded.Collections) != 1 || loaded.Collections[0].Source != "/tmp/blog.html" {
		t.Errorf("loaded = %+v", loaded)
	}
}
