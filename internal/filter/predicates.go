// Package filter selects the visible subset of listing items.
package filter

import (
	"strings"

	"github.com/hyperjump/storefront/internal/models"
)

// MatchCategory reports whether item belongs to category. The wildcard "all"
// and the empty string match every item.
func MatchCategory(item *models.ListItem, category string) bool {
	if category == "" || category == models.CategoryAll {
		return true
	}
	return item.Category == category
}

// MatchAttribute applies one threshold filter. An item without the attribute
// is not subject to the filter and passes.
func MatchAttribute(item *models.ListItem, f models.AttributeFilter) bool {
	value, ok := item.Attribute(f.Attribute)
	if !ok {
		return true
	}
	switch f.Op {
	case models.OpAtLeast:
		return value >= f.Threshold
	case models.OpAtMost:
		return value <= f.Threshold
	default:
		return true
	}
}

// MatchAttributes AND-combines threshold filters.
func MatchAttributes(item *models.ListItem, filters []models.AttributeFilter) bool {
	for _, f := range filters {
		if !MatchAttribute(item, f) {
			return false
		}
	}
	return true
}

// Certifications maps a certification key to the keywords that identify it in tags.
type Certifications map[string][]string

// DefaultCertifications returns the built-in keyword mapping.
func DefaultCertifications() Certifications {
	return Certifications{
		"organic":      {"organic", "usda"},
		"gots":         {"gots"},
		"fairtrade":    {"fair trade"},
		"cruelty-free": {"cruelty"},
		"vegan":        {"vegan"},
	}
}

// Matches reports whether any selected key matches any tag of item. Unknown keys
// match nothing. An empty selection matches every item.
func (c Certifications) Matches(item *models.ListItem, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	tags := make([]string, len(item.Tags))
	for i, tag := range item.Tags {
		tags[i] = strings.ToLower(tag)
	}
	for _, key := range selected {
		keywords, ok := c[strings.ToLower(key)]
		if !ok {
			continue
		}
		for _, tag := range tags {
			for _, kw := range keywords {
				if strings.Contains(tag, kw) {
					return true
				}
			}
		}
	}
	return false
}
