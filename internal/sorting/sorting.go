// Package sorting orders visible listing items by a chosen key.
package sorting

import (
	"sort"
	"strings"

	"github.com/hyperjump/storefront/internal/models"
)

// Kind is the comparator family of a sort key.
type Kind int

const (
	// KindNone keeps source order.
	KindNone Kind = iota
	// KindRelevance orders by relevance score, highest first.
	KindRelevance
	// KindDate orders by publish date. Undated items carrying Badge, if set,
	// come before other undated items.
	KindDate
	// KindAttribute orders by a numeric attribute.
	KindAttribute
	// KindBadge puts items carrying a badge first.
	KindBadge
)

// Key is a parsed sort order.
type Key struct {
	Name       string
	Kind       Kind
	Attribute  string
	Badge      string
	Descending bool
}

// Named sort keys used by the blog and product listings.
var named = map[string]Key{
	"relevance":  {Kind: KindRelevance, Descending: true},
	"newest":     {Kind: KindDate, Badge: models.BadgeNew, Descending: true},
	"oldest":     {Kind: KindDate},
	"price-low":  {Kind: KindAttribute, Attribute: models.AttrPrice},
	"price-high": {Kind: KindAttribute, Attribute: models.AttrPrice, Descending: true},
	"rating":     {Kind: KindAttribute, Attribute: models.AttrRating, Descending: true},
	"popular":    {Kind: KindAttribute, Attribute: models.AttrViews, Descending: true},
	"featured":   {Kind: KindBadge, Badge: models.BadgeFeatured},
}

// Parse resolves a sort name. Besides the named keys it accepts "badge:<name>"
// and "<attribute>-asc" / "<attribute>-desc". Anything else keeps source order.
func Parse(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := named[name]; ok {
		k.Name = name
		return k
	}
	if badge, ok := strings.CutPrefix(name, "badge:"); ok && badge != "" {
		return Key{Name: name, Kind: KindBadge, Badge: badge}
	}
	if attr, ok := strings.CutSuffix(name, "-asc"); ok && attr != "" {
		return Key{Name: name, Kind: KindAttribute, Attribute: attr}
	}
	if attr, ok := strings.CutSuffix(name, "-desc"); ok && attr != "" {
		return Key{Name: name, Kind: KindAttribute, Attribute: attr, Descending: true}
	}
	return Key{Name: name, Kind: KindNone}
}

// ParseFor resolves name for a listing of the given kind. Product listings
// order by featured when name is set but not a known key; other kinds keep
// source order.
func ParseFor(name string, kind models.Kind) Key {
	k := Parse(name)
	if k.Kind == KindNone && k.Name != "" && kind == models.KindProduct {
		return Parse("featured")
	}
	return k
}

// Names returns the named sort keys in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sort orders results in place. The sort is stable and uses no secondary key:
// equal keys keep their prior relative order. Items lacking the date or
// attribute sort after items that have it, in either direction.
func Sort(results []*models.MatchResult, key Key) {
	if key.Kind == KindNone || len(results) < 2 {
		return
	}
	sort.SliceStable(results, func(i, j int) bool {
		return compare(results[i], results[j], key) < 0
	})
}

func compare(a, b *models.MatchResult, key Key) int {
	switch key.Kind {
	case KindRelevance:
		return directed(cmpFloat(a.Score, b.Score), key.Descending)
	case KindDate:
		ad, bd := a.Item.HasDate(), b.Item.HasDate()
		if !ad && !bd && key.Badge != "" {
			return cmpBadge(a.Item, b.Item, key.Badge)
		}
		return cmpPresent(ad, bd, func() int {
			return directed(a.Item.PublishedAt.Compare(b.Item.PublishedAt), key.Descending)
		})
	case KindAttribute:
		av, aok := a.Item.Attribute(key.Attribute)
		bv, bok := b.Item.Attribute(key.Attribute)
		return cmpPresent(aok, bok, func() int {
			return directed(cmpFloat(av, bv), key.Descending)
		})
	case KindBadge:
		return cmpBadge(a.Item, b.Item, key.Badge)
	default:
		return 0
	}
}

func cmpBadge(a, b *models.ListItem, badge string) int {
	ab, bb := a.HasBadge(badge), b.HasBadge(badge)
	switch {
	case ab && !bb:
		return -1
	case bb && !ab:
		return 1
	}
	return 0
}

// cmpPresent orders present values before absent ones and defers to both when both are present.
func cmpPresent(aok, bok bool, both func() int) int {
	switch {
	case aok && bok:
		return both()
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func directed(c int, descending bool) int {
	if descending {
		return -c
	}
	return c
}
