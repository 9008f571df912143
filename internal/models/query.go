package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

// CategoryAll is the wildcard category.
const CategoryAll = "all"

// Operator compares a numeric attribute against a threshold.
type Operator string

const (
	// OpAtLeast keeps items whose attribute is >= threshold (rating-like).
	OpAtLeast Operator = ">="
	// OpAtMost keeps items whose attribute is <= threshold (price-like).
	OpAtMost Operator = "<="
)

// AttributeFilter is one (attribute, operator, threshold) triple.
type AttributeFilter struct {
	Attribute string   `json:"attribute" yaml:"attribute"`
	Op        Operator `json:"op" yaml:"op"`
	Threshold float64  `json:"threshold" yaml:"threshold"`
}

// String renders the filter in the same form ParseAttributeFilter accepts.
func (f AttributeFilter) String() string {
	return f.Attribute + string(f.Op) + strconv.FormatFloat(f.Threshold, 'f', -1, 64)
}

// ParseAttributeFilter parses "name>=value" or "name<=value".
func ParseAttributeFilter(expr string) (AttributeFilter, error) {
	for _, op := range []Operator{OpAtLeast, OpAtMost} {
		name, value, found := strings.Cut(expr, string(op))
		if !found {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return AttributeFilter{}, fmt.Errorf("attribute filter %q: missing attribute", expr)
		}
		threshold, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return AttributeFilter{}, fmt.Errorf("attribute filter %q: %w", expr, err)
		}
		return AttributeFilter{Attribute: name, Op: op, Threshold: threshold}, nil
	}
	return AttributeFilter{}, fmt.Errorf("attribute filter %q: expected >= or <=", expr)
}

// ListingQuery is the filter/sort configuration owned by the presentation layer
// and passed to the pipeline on every invocation.
type ListingQuery struct {
	Category       string            `json:"category,omitempty" schema:"category" yaml:"category"`
	Search         string            `json:"search,omitempty" schema:"search" yaml:"search"`
	Certifications []string          `json:"certifications,omitempty" schema:"cert" yaml:"certifications"`
	MinRating      *float64          `json:"min_rating,omitempty" schema:"min_rating" yaml:"min_rating"`
	MaxPrice       *float64          `json:"max_price,omitempty" schema:"max_price" yaml:"max_price"`
	Attrs          []string          `json:"attrs,omitempty" schema:"attr" yaml:"attrs"`
	Attributes     []AttributeFilter `json:"attributes,omitempty" schema:"-" yaml:"attributes"`
	Sort           string            `json:"sort,omitempty" schema:"sort" yaml:"sort"`
	Page           int               `json:"page,omitempty" schema:"page" yaml:"page"`
	PageSize       int               `json:"page_size,omitempty" schema:"size" yaml:"page_size"`
}

// Sanitize trims free-text fields and normalizes the category wildcard.
// Categories are lowercased to match extracted items.
func (q *ListingQuery) Sanitize() {
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Category == "" {
		q.Category = CategoryAll
	}
	q.Sort = strings.ToLower(strings.TrimSpace(q.Sort))
	certs := q.Certifications[:0]
	for _, c := range q.Certifications {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			certs = append(certs, c)
		}
	}
	q.Certifications = certs
}

// AllCategories reports whether the category filter is the wildcard.
func (q *ListingQuery) AllCategories() bool {
	return q.Category == "" || q.Category == CategoryAll
}

// AttributeFilters returns every active attribute filter. MinRating and MaxPrice
// are shorthands for rating>= and price<=. Malformed attr expressions are skipped.
func (q *ListingQuery) AttributeFilters() []AttributeFilter {
	filters := make([]AttributeFilter, 0, len(q.Attributes)+len(q.Attrs)+2)
	filters = append(filters, q.Attributes...)
	if q.MinRating != nil {
		filters = append(filters, AttributeFilter{Attribute: AttrRating, Op: OpAtLeast, Threshold: *q.MinRating})
	}
	if q.MaxPrice != nil {
		filters = append(filters, AttributeFilter{Attribute: AttrPrice, Op: OpAtMost, Threshold: *q.MaxPrice})
	}
	for _, expr := range q.Attrs {
		f, err := ParseAttributeFilter(expr)
		if err != nil {
			continue
		}
		filters = append(filters, f)
	}
	return filters
}

// Clone returns a deep copy so callers can mutate it without affecting the original.
func (q *ListingQuery) Clone() *ListingQuery {
	c := *q
	c.Certifications = append([]string(nil), q.Certifications...)
	c.Attrs = append([]string(nil), q.Attrs...)
	c.Attributes = append([]AttributeFilter(nil), q.Attributes...)
	if q.MinRating != nil {
		v := *q.MinRating
		c.MinRating = &v
	}
	if q.MaxPrice != nil {
		v := *q.MaxPrice
		c.MaxPrice = &v
	}
	return &c
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// DecodeListingQuery builds a ListingQuery from URL query values.
func DecodeListingQuery(values url.Values) (*ListingQuery, error) {
	q := &ListingQuery{}
	if err := decoder.Decode(q, values); err != nil {
		return nil, fmt.Errorf("decode listing query: %w", err)
	}
	q.Sanitize()
	return q, nil
}

// SeedFromValues reads only the category and search parameters, the way the
// site seeds its filters once at initial load.
func SeedFromValues(values url.Values) *ListingQuery {
	q := &ListingQuery{
		Category: values.Get("category"),
		Search:   values.Get("search"),
	}
	q.Sanitize()
	return q
}
