package extract

import "github.com/hyperjump/storefront/internal/models"

var postLabels = map[string]string{
	"green-living": "Green Living",
	"reviews":      "Product Reviews",
	"beauty":       "Natural Beauty",
	"fashion":      "Sustainable Fashion",
}

var productLabels = map[string]string{
	"home":    "Home & Kitchen",
	"beauty":  "Beauty & Personal Care",
	"fashion": "Fashion & Accessories",
	"outdoor": "Outdoor & Travel",
}

// DefaultLabels returns the built-in category display names for kind.
// The returned map is a copy.
func DefaultLabels(kind models.Kind) map[string]string {
	src := postLabels
	if kind == models.KindProduct {
		src = productLabels
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
