// Package session holds the listing configuration for one interactive view and
// re-renders it when the user changes category, sort, page or search text.
package session

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hyperjump/storefront/internal/debounce"
	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/internal/pipeline"
)

const (
	// DefaultDebounce is the delay between the last keystroke and the search.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultMinQueryLength is the shortest non-empty query that triggers a search.
	DefaultMinQueryLength = 2
)

// Action tells the caller what a search input did.
type Action int

const (
	// Rendered means the listing was recomputed immediately.
	Rendered Action = iota
	// Scheduled means a debounced search is pending.
	Scheduled
	// Ignored means the input was too short to search on.
	Ignored
)

func (a Action) String() string {
	switch a {
	case Rendered:
		return "rendered"
	case Scheduled:
		return "scheduled"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Source returns the current items of a collection, in display order.
type Source func() []*models.ListItem

// RenderFunc receives every recomputed listing.
type RenderFunc func(*models.Listing)

// Session owns a ListingQuery. All methods are safe for concurrent use.
type Session struct {
	collection string
	source     Source
	pipeline   *pipeline.Pipeline
	render     RenderFunc

	minQueryLength int
	debouncer      *debounce.Debouncer
	logger         *zap.Logger

	mu         sync.Mutex
	query      *models.ListingQuery
	pending    string
	hasPending bool
	pendingGen uint64
	renderMu   sync.Mutex
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	delay          time.Duration
	minQueryLength int
	logger         *zap.Logger
	seed           *models.ListingQuery
}

// WithDebounce sets the search debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(o *sessionOptions) {
		if d > 0 {
			o.delay = d
		}
	}
}

// WithMinQueryLength sets the shortest query that is searched on.
func WithMinQueryLength(n int) Option {
	return func(o *sessionOptions) {
		if n > 0 {
			o.minQueryLength = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *sessionOptions) { o.logger = l }
}

// WithQuery seeds the initial configuration, e.g. from URL parameters.
func WithQuery(q *models.ListingQuery) Option {
	return func(o *sessionOptions) { o.seed = q }
}

// New creates a session over source. Nothing is rendered until the first change or Refresh.
func New(collection string, source Source, p *pipeline.Pipeline, render RenderFunc, opts ...Option) *Session {
	o := &sessionOptions{
		delay:          DefaultDebounce,
		minQueryLength: DefaultMinQueryLength,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	q := &models.ListingQuery{Category: models.CategoryAll, Page: 1}
	if o.seed != nil {
		q = o.seed.Clone()
		q.Sanitize()
		if q.Page < 1 {
			q.Page = 1
		}
	}
	if p == nil {
		p = pipeline.New(nil)
	}
	return &Session{
		collection:     collection,
		source:         source,
		pipeline:       p,
		render:         render,
		minQueryLength: o.minQueryLength,
		debouncer:      debounce.New(o.delay),
		logger:         o.logger,
		query:          q,
	}
}

// Query returns a copy of the current configuration.
func (s *Session) Query() *models.ListingQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.Clone()
}

// SetSearch handles a change of the search input. An empty query shows
// everything at once, a query shorter than the minimum length is ignored,
// and anything else is searched after the debounce delay. Every call drops
// the previously pending search.
func (s *Session) SetSearch(text string) Action {
	text = strings.TrimSpace(text)
	if text == "" {
		s.update(func(q *models.ListingQuery) {
			q.Search = ""
			q.Page = 1
		}, false)
		return Rendered
	}
	if utf8.RuneCountInString(text) < s.minQueryLength {
		s.mu.Lock()
		s.debouncer.Cancel()
		s.hasPending = false
		s.mu.Unlock()
		s.logger.Debug("search ignored", zap.String("query", text))
		return Ignored
	}

	s.mu.Lock()
	s.pending = text
	s.hasPending = true
	s.pendingGen = s.debouncer.Schedule(s.fire)
	s.mu.Unlock()
	return Scheduled
}

func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if !s.hasPending || s.pendingGen != gen {
		s.mu.Unlock()
		return
	}
	s.query.Search = s.pending
	s.query.Page = 1
	s.hasPending = false
	s.mu.Unlock()
	s.logger.Debug("debounced search", zap.Uint64("generation", gen))
	s.Refresh()
}

// SetCategory selects one category ("all" for every category) and returns to page 1.
func (s *Session) SetCategory(category string) {
	s.update(func(q *models.ListingQuery) {
		q.Category = category
		q.Page = 1
	}, true)
}

// SetSort changes the sort order.
func (s *Session) SetSort(sort string) {
	s.update(func(q *models.ListingQuery) { q.Sort = sort }, true)
}

// SetPage moves to page n. The pipeline clamps it to the valid range.
func (s *Session) SetPage(n int) {
	s.update(func(q *models.ListingQuery) { q.Page = n }, true)
}

// SetCertifications replaces the selected certification keys.
func (s *Session) SetCertifications(keys []string) {
	s.update(func(q *models.ListingQuery) {
		q.Certifications = append([]string(nil), keys...)
		q.Page = 1
	}, true)
}

// Refresh re-renders the current configuration.
func (s *Session) Refresh() *models.Listing {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	q := s.Query()
	listing := s.pipeline.Run(s.collection, s.source(), q)
	if listing.Page != nil {
		s.mu.Lock()
		if s.query.Page == q.Page {
			s.query.Page = listing.Page.Number
		}
		s.mu.Unlock()
	}
	if s.render != nil {
		s.render(listing)
	}
	return listing
}

// Flush runs the pending search now instead of waiting for the delay.
// It reports whether there was one.
func (s *Session) Flush() bool {
	s.mu.Lock()
	if !s.hasPending {
		s.mu.Unlock()
		return false
	}
	s.debouncer.Cancel()
	s.query.Search = s.pending
	s.query.Page = 1
	s.hasPending = false
	s.mu.Unlock()
	s.Refresh()
	return true
}

// Close drops any pending search.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debouncer.Cancel()
	s.hasPending = false
}

// update applies fn and renders immediately. Any pending search is superseded:
// its timer is cancelled, and when keepPending is set its text is applied first
// so the typed query is not lost.
func (s *Session) update(fn func(q *models.ListingQuery), keepPending bool) {
	s.mu.Lock()
	if s.hasPending {
		s.debouncer.Cancel()
		if keepPending {
			s.query.Search = s.pending
		}
		s.hasPending = false
	}
	fn(s.query)
	s.query.Sanitize()
	s.mu.Unlock()
	s.Refresh()
}
