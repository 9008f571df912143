// Package catalog keeps a read-only snapshot of every configured collection.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/storefront/internal/config"
	"github.com/hyperjump/storefront/internal/extract"
	"github.com/hyperjump/storefront/internal/metrics"
	"github.com/hyperjump/storefront/internal/models"
)

// ErrUnknownCollection is returned for a collection name that is not configured.
var ErrUnknownCollection = errors.New("unknown collection")

// Info describes a collection and its current snapshot.
type Info struct {
	Name      string      `json:"name"`
	Kind      models.Kind `json:"kind"`
	Source    string      `json:"source"`
	Items     int         `json:"items"`
	LoadedAt  time.Time   `json:"loaded_at,omitempty"`
	LastError string      `json:"last_error,omitempty"`
}

// Category is a distinct category of a collection with its item count.
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

type snapshot struct {
	items    []*models.ListItem
	loadedAt time.Time
	err      error
}

// Catalog is safe for concurrent use. Snapshots are replaced whole; readers
// never observe a partially loaded collection.
type Catalog struct {
	extractor *extract.Extractor
	logger    *zap.Logger

	defs  map[string]config.CollectionConfig
	order []string

	mu        sync.RWMutex
	snapshots map[string]*snapshot
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// New creates a catalog for the given collections. Nothing is loaded until LoadAll or Reload.
func New(extractor *extract.Extractor, collections []config.CollectionConfig, opts ...Option) *Catalog {
	if extractor == nil {
		extractor = extract.NewExtractor()
	}
	c := &Catalog{
		extractor: extractor,
		logger:    zap.NewNop(),
		defs:      make(map[string]config.CollectionConfig, len(collections)),
		snapshots: make(map[string]*snapshot, len(collections)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, col := range collections {
		if _, dup := c.defs[col.Name]; dup {
			continue
		}
		c.defs[col.Name] = col
		c.order = append(c.order, col.Name)
	}
	return c
}

// LoadAll loads every collection. A failing collection does not stop the others;
// all failures are returned joined.
func (c *Catalog) LoadAll(ctx context.Context) error {
	var errs []error
	for _, name := range c.order {
		if _, err := c.Reload(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reload re-extracts one collection and swaps in the new snapshot. On failure
// the previous snapshot stays in place.
func (c *Catalog) Reload(ctx context.Context, name string) (int, error) {
	def, ok := c.defs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	start := time.Now()
	items, err := c.extractor.Extract(ctx, def.Source, extract.Options{
		Collection: def.Name,
		Kind:       def.Kind,
		Labels:     c.labels(def),
	})
	metrics.ObserveReload(name, len(items), err)

	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.snapshots[name]
	if err != nil {
		c.logger.Warn("collection reload failed", zap.String("collection", name), zap.Error(err))
		if prev == nil {
			prev = &snapshot{}
			c.snapshots[name] = prev
		}
		prev.err = err
		return 0, fmt.Errorf("reload %s: %w", name, err)
	}
	c.snapshots[name] = &snapshot{items: items, loadedAt: time.Now()}
	c.logger.Debug("collection loaded",
		zap.String("collection", name),
		zap.String("source", def.Source),
		zap.Int("items", len(items)),
		zap.Duration("took", time.Since(start)))
	return len(items), nil
}

// labels merges configured category labels over the built-in ones.
func (c *Catalog) labels(def config.CollectionConfig) map[string]string {
	labels := extract.DefaultLabels(def.Kind)
	for k, v := range def.Categories {
		labels[k] = v
	}
	return labels
}

// Items returns a copy of the collection's current item slice.
func (c *Catalog) Items(name string) ([]*models.ListItem, error) {
	if _, ok := c.defs[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := c.snapshots[name]
	if snap == nil {
		return []*models.ListItem{}, nil
	}
	out := make([]*models.ListItem, len(snap.items))
	copy(out, snap.items)
	return out, nil
}

// Source returns a function yielding the collection's current items, for sessions.
func (c *Catalog) Source(name string) func() []*models.ListItem {
	return func() []*models.ListItem {
		items, err := c.Items(name)
		if err != nil {
			return nil
		}
		return items
	}
}

// Kind returns the kind of a collection.
func (c *Catalog) Kind(name string) (models.Kind, error) {
	def, ok := c.defs[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return def.Kind, nil
}

// Collections describes every collection in configuration order.
func (c *Catalog) Collections() []Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Info, 0, len(c.order))
	for _, name := range c.order {
		def := c.defs[name]
		info := Info{Name: name, Kind: def.Kind, Source: def.Source}
		if snap := c.snapshots[name]; snap != nil {
			info.Items = len(snap.items)
			info.LoadedAt = snap.loadedAt
			if snap.err != nil {
				info.LastError = snap.err.Error()
			}
		}
		out = append(out, info)
	}
	return out
}

// Categories returns the distinct categories of a collection in first-seen order.
func (c *Catalog) Categories(name string) ([]Category, error) {
	items, err := c.Items(name)
	if err != nil {
		return nil, err
	}
	return CountCategories(items), nil
}

// CountCategories groups items by category key in first-seen order.
func CountCategories(items []*models.ListItem) []Category {
	index := make(map[string]int)
	var out []Category
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(out)
			index[it.Category] = i
			out = append(out, Category{Key: it.Category, Label: it.CategoryLabel})
		}
		out[i].Count++
	}
	return out
}

// Sources returns the distinct source paths, sorted.
func (c *Catalog) Sources() []string {
	seen := make(map[string]bool)
	var out []string
	for _, def := range c.defs {
		p := filepath.Clean(def.Source)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// CollectionsForPath returns the collections whose source is path.
func (c *Catalog) CollectionsForPath(path string) []string {
	clean := filepath.Clean(path)
	var out []string
	for _, name := range c.order {
		if filepath.Clean(c.defs[name].Source) == clean {
			out = append(out, name)
		}
	}
	return out
}
