// Package models defines core data structures for listing items, queries, and results.
package models

import (
	"sort"
	"time"
)

// Kind identifies what a collection lists.
type Kind string

const (
	// KindPost is a blog post listing.
	KindPost Kind = "post"
	// KindProduct is a product catalog listing.
	KindProduct Kind = "product"
)

// DefaultCategory is assigned by extractors when the source omits a category.
const DefaultCategory = "uncategorized"

// Common numeric attribute names.
const (
	AttrPrice         = "price"
	AttrOriginalPrice = "original_price"
	AttrRating        = "rating"
	AttrReviews       = "reviews"
	AttrViews         = "views"
)

// Common badge names.
const (
	BadgeFeatured = "featured"
	BadgeNew      = "new"
)

// ListItem is one displayed entry (post or product) rebuilt from the source on every run.
// Category is always set; every other field may be empty.
type ListItem struct {
	ID            string             `json:"id" yaml:"id"`
	Category      string             `json:"category" yaml:"category"`
	CategoryLabel string             `json:"category_label,omitempty" yaml:"category_label,omitempty"`
	Title         string             `json:"title" yaml:"title"`
	Excerpt       string             `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Tags          []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
	Attributes    map[string]float64 `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Badges        map[string]bool    `json:"badges,omitempty" yaml:"badges,omitempty"`
	PublishedAt   time.Time          `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	Link          string             `json:"link,omitempty" yaml:"link,omitempty"`
}

// Attribute returns the numeric attribute and whether it is present.
func (it *ListItem) Attribute(name string) (float64, bool) {
	if it.Attributes == nil {
		return 0, false
	}
	v, ok := it.Attributes[name]
	return v, ok
}

// SetAttribute records a numeric attribute, allocating the map on first use.
func (it *ListItem) SetAttribute(name string, value float64) {
	if it.Attributes == nil {
		it.Attributes = make(map[string]float64)
	}
	it.Attributes[name] = value
}

// HasBadge reports whether the badge flag is set.
func (it *ListItem) HasBadge(name string) bool {
	return it.Badges[name]
}

// AddBadge sets a badge flag, allocating the map on first use.
func (it *ListItem) AddBadge(name string) {
	if name == "" {
		return
	}
	if it.Badges == nil {
		it.Badges = make(map[string]bool)
	}
	it.Badges[name] = true
}

// BadgeNames returns the set badges in sorted order.
func (it *ListItem) BadgeNames() []string {
	names := make([]string, 0, len(it.Badges))
	for name, set := range it.Badges {
		if set {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// HasDate reports whether PublishedAt was provided by the source.
func (it *ListItem) HasDate() bool {
	return !it.PublishedAt.IsZero()
}
