// Package integration exercises the catalog, watcher and pipeline together against real files.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/storefront/internal/catalog"
	"github.com/hyperjump/storefront/internal/config"
	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/internal/pipeline"
	"github.com/hyperjump/storefront/internal/watcher"
)

const before = `
items:
  - {id: a, title: Zero Waste Kitchen, category: lifestyle, views: 1200}
  - {id: b, title: Bamboo Brush Review, category: reviews, views: 300}
`

const after = `
items:
  - {id: a, title: Zero Waste Kitchen, category: lifestyle, views: 1200}
  - {id: b, title: Bamboo Brush Review, category: reviews, views: 300}
  - {id: c, title: Composting Basics, category: lifestyle, views: 4500}
`

func TestIntegration_WatcherReloadsCollection(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "posts.yaml")
	if err := os.WriteFile(src, []byte(before), 0600); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Collections: []config.CollectionConfig{{Name: "blog", Kind: models.KindPost, Source: src}}}
	config.ApplyDefaults(cfg)

	logger := zap.NewNop()
	cat := catalog.New(nil, cfg.Collections, catalog.WithLogger(logger))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := cat.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan string, 4)
	w := watcher.NewWatcher(cat.Sources(), func(path string) {
		for _, name := range cat.CollectionsForPath(path) {
			if _, err := cat.Reload(ctx, name); err == nil {
				reloaded <- name
			}
		}
	}, watcher.WithDebounce(50*time.Millisecond), watcher.WithLogger(logger))
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	p := pipeline.New(nil)
	items, _ := cat.Items("blog")
	if got := p.Run("blog", items, &models.ListingQuery{Sort: "popular"}).IDs; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("before reload: %v", got)
	}

	if err := os.WriteFile(src, []byte(after), 0600); err != nil {
		t.Fatal(err)
	}
	select {
	case name := <-reloaded:
		if name != "blog" {
			t.Fatalf("reloaded %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("collection was not reloaded after the source changed")
	}

	items, _ = cat.Items("blog")
	if got := p.Run("blog", items, &models.ListingQuery{Sort: "popular"}).IDs; !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("after reload: %v", got)
	}
	cats := catalog.CountCategories(items)
	if len(cats) != 2 || cats[0].Key != "lifestyle" || cats[0].Count != 2 {
		t.Errorf("categories = %+v", cats)
	}
}

func TestIntegration_BrokenSourceKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "posts.yaml")
	if err := os.WriteFile(src, []byte(before), 0600); err != nil {
		t.Fatal(err)
	}
	cat := catalog.New(nil, []config.CollectionConfig{{Name: "blog", Kind: models.KindPost, Source: src}})
	ctx := context.Background()
	if err := cat.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("items: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := cat.Reload(ctx, "blog"); err == nil {
		t.Fatal("expected reload of malformed YAML to fail")
	}
	items, err := cat.Items("blog")
	if err != nil || len(items) != 2 {
		t.Errorf("snapshot after failed reload = %d items, %v", len(items), err)
	}
}
