package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/pkg/utils"
)

// Card class names, as rendered by the site templates.
var (
	postCardClasses    = []string{"blog-post-card", "post-card"}
	productCardClasses = []string{"product-card"}
)

// extractMarkup parses rendered HTML and returns one item per card, in
// document order. kind picks the card type; an empty kind tries posts and
// falls back to products.
func extractMarkup(content []byte, kind models.Kind) ([]*models.ListItem, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var items []*models.ListItem
	if kind != models.KindProduct {
		for _, card := range findAll(doc, postCardClasses...) {
			items = append(items, postFromCard(card))
		}
	}
	if kind == models.KindProduct || (kind == "" && len(items) == 0) {
		for _, card := range findAll(doc, productCardClasses...) {
			items = append(items, productFromCard(card))
		}
	}
	return items, nil
}

func postFromCard(card *html.Node) *models.ListItem {
	it := &models.ListItem{
		ID:       firstNonEmpty(attr(card, "data-id"), attr(card, "id")),
		Category: attr(card, "data-category"),
	}
	if title := findFirst(card, "post-title"); title != nil {
		it.Title = textContent(title)
		it.Link = findLink(title)
	}
	it.Excerpt = textOf(card, "post-excerpt")
	it.CategoryLabel = textOf(card, "post-category")
	for _, tag := range findAll(card, "tag") {
		if t := utils.CollapseSpace(textContent(tag)); t != "" {
			it.Tags = append(it.Tags, t)
		}
	}
	if d := findFirst(card, "post-date"); d != nil {
		if t, ok := ParseDate(firstNonEmpty(attr(d, "datetime"), textContent(d))); ok {
			it.PublishedAt = t
		}
	}
	if v := findFirst(card, "post-views"); v != nil {
		if n, ok := ParseViews(textContent(v)); ok {
			it.SetAttribute(models.AttrViews, n)
		}
	}
	if hasClass(card, "featured") {
		it.AddBadge(models.BadgeFeatured)
	}
	return it
}

func productFromCard(card *html.Node) *models.ListItem {
	it := &models.ListItem{Category: attr(card, "data-category")}
	if btn := findFirst(card, "quick-view-btn"); btn != nil {
		it.ID = attr(btn, "data-product")
	}
	if it.ID == "" {
		it.ID = firstNonEmpty(attr(card, "data-id"), attr(card, "id"))
	}
	if name := findFirst(card, "product-name"); name != nil {
		it.Title = textContent(name)
		it.Link = findLink(name)
	}
	it.Excerpt = textOf(card, "product-description")
	for _, tag := range findAll(card, "feature-tag") {
		if t := utils.CollapseSpace(textContent(tag)); t != "" {
			it.Tags = append(it.Tags, t)
		}
	}

	numeric := []struct {
		class string
		attr  string
	}{
		{"stars", models.AttrRating},
		{"current-price", models.AttrPrice},
		{"original-price", models.AttrOriginalPrice},
		{"rating-count", models.AttrReviews},
	}
	for _, n := range numeric {
		node := findFirst(card, n.class)
		if node == nil {
			continue
		}
		if v, ok := parseAttribute(n.attr, textContent(node)); ok {
			it.SetAttribute(n.attr, v)
		}
	}

	// Any badge marks the product as featured; the badge's own class and text name it too.
	for _, badge := range findAll(card, "product-badge") {
		it.AddBadge(models.BadgeFeatured)
		for _, c := range classes(badge) {
			if c != "product-badge" {
				it.AddBadge(strings.ToLower(c))
			}
		}
		it.AddBadge(utils.Slugify(textContent(badge)))
	}
	return it
}

// findAll returns every descendant of n carrying any of the classes, in document order.
func findAll(n *html.Node, cls ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasAnyClass(c, cls) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func findFirst(n *html.Node, cls string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if hasClass(c, cls) {
			return c
		}
		if found := findFirst(c, cls); found != nil {
			return found
		}
	}
	return nil
}

func findLink(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "a" {
		return attr(n, "href")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href := findLink(c); href != "" {
			return href
		}
	}
	return ""
}

func textOf(n *html.Node, cls string) string {
	if node := findFirst(n, cls); node != nil {
		return textContent(node)
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return utils.CollapseSpace(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func hasClass(n *html.Node, cls string) bool {
	for _, c := range classes(n) {
		if c == cls {
			return true
		}
	}
	return false
}

func hasAnyClass(n *html.Node, cls []string) bool {
	for _, c := range cls {
		if hasClass(n, c) {
			return true
		}
	}
	return false
}

// htmlToText strips markup from an HTML fragment, as found in feed descriptions.
func htmlToText(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return utils.CollapseSpace(fragment)
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type: html.ElementNode, Data: "div", DataAtom: atom.Div,
	})
	if err != nil {
		return utils.CollapseSpace(fragment)
	}
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			continue
		}
		parts = append(parts, textContent(n))
	}
	return utils.CollapseSpace(strings.Join(parts, " "))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
