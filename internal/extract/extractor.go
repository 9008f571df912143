// Package extract turns a displayed collection (rendered markup, record files,
// spreadsheets, feeds or a SQLite catalog) into ordered ListItem records.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/storefront/internal/itemid"
	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/internal/storage"
	"github.com/hyperjump/storefront/pkg/utils"
)

// Options describes the collection being extracted.
type Options struct {
	// Collection names the listing; it scopes derived IDs and SQLite rows.
	Collection string
	// Kind selects the card markup and default category labels.
	Kind models.Kind
	// Labels maps category keys to display names. Nil uses DefaultLabels(Kind).
	Labels map[string]string
}

// Extractor reads collections in any supported format.
type Extractor struct {
	logger *zap.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor returns a new Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Supported reports whether path has an extension the extractor understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".json", ".yaml", ".yml", ".xlsx", ".xml", ".rss", ".atom", ".db", ".sqlite":
		return true
	}
	return false
}

// Extract reads the file at path and returns its items in display order.
func (e *Extractor) Extract(ctx context.Context, path string, opts Options) ([]*models.ListItem, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".db" || ext == ".sqlite" {
		items, err := e.extractSQLite(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return e.finalize(items, opts), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, ext, opts)
}

// ExtractBytes extracts items from content based on the given extension.
// ext should include the leading dot (e.g. ".html").
func (e *Extractor) ExtractBytes(content []byte, ext string, opts Options) ([]*models.ListItem, error) {
	var (
		items []*models.ListItem
		err   error
	)
	switch strings.ToLower(ext) {
	case ".html", ".htm", "":
		items, err = extractMarkup(content, opts.Kind)
	case ".json":
		items, err = extractJSON(content)
	case ".yaml", ".yml":
		items, err = extractYAML(content)
	case ".xlsx":
		items, err = extractExcel(content)
	case ".xml", ".rss", ".atom":
		items, err = extractFeed(content)
	case ".db", ".sqlite":
		return nil, fmt.Errorf("sqlite catalogs must be read from a file")
	default:
		return nil, fmt.Errorf("unsupported source format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	items = e.finalize(items, opts)
	e.logger.Debug("extracted collection",
		zap.String("collection", opts.Collection),
		zap.String("format", ext),
		zap.Int("items", len(items)))
	return items, nil
}

func (e *Extractor) extractSQLite(ctx context.Context, path string, opts Options) ([]*models.ListItem, error) {
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return store.ListItems(ctx, opts.Collection)
}

// finalize fills the fields every ListItem must carry: a category, its
// display label and an ID.
func (e *Extractor) finalize(items []*models.ListItem, opts Options) []*models.ListItem {
	labels := opts.Labels
	if labels == nil {
		labels = DefaultLabels(opts.Kind)
	}
	for i, it := range items {
		it.Category = strings.ToLower(strings.TrimSpace(it.Category))
		if it.Category == "" {
			it.Category = models.DefaultCategory
		}
		it.CategoryLabel = utils.CollapseSpace(it.CategoryLabel)
		if it.CategoryLabel == "" {
			it.CategoryLabel = labels[it.Category]
		}
		it.Title = utils.CollapseSpace(it.Title)
		it.Excerpt = utils.CollapseSpace(it.Excerpt)
		it.ID = strings.TrimSpace(it.ID)
		if it.ID == "" {
			it.ID = itemid.Derive(opts.Collection, it.Title, i)
		}
	}
	return items
}
