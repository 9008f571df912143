// Package pipeline runs the filter, sort and paginate stages over a collection.
package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/storefront/internal/filter"
	"github.com/hyperjump/storefront/internal/metrics"
	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/internal/pagination"
	"github.com/hyperjump/storefront/internal/sorting"
)

// Pipeline is stateless per invocation. It is safe for concurrent use.
type Pipeline struct {
	filter   *filter.Filter
	pageSize int
	kinds    map[string]models.Kind
	logger   *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Default is no-op.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithPageSize sets the page size used when a query asks for a page without a size.
func WithPageSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.pageSize = n
		}
	}
}

// WithCollectionKinds tells the pipeline which collections are product or post
// listings. Unlisted collections sort like posts.
func WithCollectionKinds(kinds map[string]models.Kind) Option {
	return func(p *Pipeline) {
		p.kinds = kinds
	}
}

// New creates a pipeline around f. A nil filter uses the default weights and certification mapping.
func New(f *filter.Filter, opts ...Option) *Pipeline {
	if f == nil {
		f = filter.NewFilter(nil, nil)
	}
	p := &Pipeline{
		filter:   f,
		pageSize: pagination.DefaultPageSize,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SortKey resolves the effective sort for q on collection. With search terms
// and no explicit sort the listing is ordered by relevance.
func (p *Pipeline) SortKey(collection string, q *models.ListingQuery) sorting.Key {
	if q.Sort == "" && !p.filter.Ranker().AnalyzeQuery(q.Search).Empty() {
		return sorting.Parse("relevance")
	}
	return sorting.ParseFor(q.Sort, p.kinds[collection])
}

// Run filters, sorts and (when q asks for a page) paginates items. items is
// never modified. A nil query selects everything in source order.
func (p *Pipeline) Run(collection string, items []*models.ListItem, q *models.ListingQuery) *models.Listing {
	start := time.Now()
	if q == nil {
		q = &models.ListingQuery{}
	}

	visible := filter.Visible(p.filter.Apply(items, q))
	key := p.SortKey(collection, q)
	sorting.Sort(visible, key)

	ids := make([]string, 0, len(visible))
	for _, m := range visible {
		ids = append(ids, m.Item.ID)
	}

	listing := &models.Listing{
		Collection: collection,
		Query:      q.Search,
		Matches:    visible,
		IDs:        ids,
		Total:      len(visible),
	}
	if q.Page != 0 || q.PageSize != 0 {
		size := q.PageSize
		if size <= 0 {
			size = p.pageSize
		}
		listing.Page = pagination.Paginate(ids, q.Page, size)
	}

	searching := !p.filter.Ranker().AnalyzeQuery(q.Search).Empty()
	metrics.ObservePipelineRun(collection, searching, listing.Total)
	p.logger.Debug("pipeline run",
		zap.String("collection", collection),
		zap.String("category", q.Category),
		zap.String("search", q.Search),
		zap.String("sort", key.Name),
		zap.Int("items", len(items)),
		zap.Int("visible", listing.Total),
		zap.Duration("took", time.Since(start)),
	)
	return listing
}
