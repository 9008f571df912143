package extract

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/storefront/internal/itemid"
	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/internal/storage"
)

const blogHTML = `<!DOCTYPE html>
<html><body><div class="blog-grid">
  <article class="blog-post-card featured" data-category="green-living">
    <div class="post-content">
      <span class="post-category">Green Living</span>
      <h3 class="post-title"><a href="/posts/zero-waste.html">Zero   Waste Kitchen</a></h3>
      <p class="post-excerpt">Simple swaps for a greener kitchen.</p>
      <div class="post-tags"><span class="tag">Kitchen</span><span class="tag">Zero Waste</span></div>
      <div class="post-meta"><span class="post-date">March 15, 2024</span><span class="post-views">1.2k views</span></div>
    </div>
  </article>
  <article class="blog-post-card" data-category="reviews" id="post-2">
    <h3 class="post-title"><a href="/posts/brush.html">Bamboo Brush Review</a></h3>
    <span class="post-date">not a date</span>
  </article>
</div></body></html>`

const productHTML = `<html><body><div class="products-grid">
  <div class="product-card" data-category="home">
    <span class="product-badge new">New</span>
    <h3 class="product-name">Bamboo Set</h3>
    <p class="product-description">Reusable bamboo utensils.</p>
    <div class="product-features"><span class="feature-tag">Biodegradable</span><span class="feature-tag">USDA Organic</span></div>
    <div class="product-rating"><span class="stars">★★★★☆</span><span class="rating-count">(128)</span></div>
    <div class="product-price"><span class="current-price">$34.99</span><span class="original-price">$44.99</span></div>
    <button class="quick-view-btn" data-product="bamboo-set">Quick View</button>
  </div>
  <div class="product-card" data-id="jars">
    <h3 class="product-name">Glass Jars</h3>
    <span class="current-price">Call us</span>
  </div>
</div></body></html>`

func TestExtractBytes_posts(t *testing.T) {
	e := NewExtractor()
	items, err := e.ExtractBytes([]byte(blogHTML), ".html", Options{Collection: "blog", Kind: models.KindPost})
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(items))
	}

	p := items[0]
	if p.Title != "Zero Waste Kitchen" || p.Link != "/posts/zero-waste.html" {
		t.Errorf("title/link = %q %q", p.Title, p.Link)
	}
	if p.Category != "green-living" || p.CategoryLabel != "Green Living" {
		t.Errorf("category = %q %q", p.Category, p.CategoryLabel)
	}
	if !reflect.DeepEqual(p.Tags, []string{"Kitchen", "Zero Waste"}) {
		t.Errorf("tags = %v", p.Tags)
	}
	if v, _ := p.Attribute(models.AttrViews); v != 1200 {
		t.Errorf("views = %v", v)
	}
	if !p.PublishedAt.Equal(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", p.PublishedAt)
	}
	if !p.HasBadge(models.BadgeFeatured) {
		t.Error("featured class should set the featured badge")
	}
	if !itemid.Valid(p.ID) || p.ID != itemid.Derive("blog", "Zero Waste Kitchen", 0) {
		t.Errorf("expected derived id, got %q", p.ID)
	}

	second := items[1]
	if second.ID != "post-2" {
		t.Errorf("id = %q", second.ID)
	}
	if second.CategoryLabel != "Product Reviews" {
		t.Errorf("default label = %q", second.CategoryLabel)
	}
	if second.HasDate() {
		t.Error("malformed date should be absent")
	}
	if _, ok := second.Attribute(models.AttrViews); ok {
		t.Error("missing views should be absent")
	}
}

func TestExtractBytes_products(t *testing.T) {
	e := NewExtractor()
	items, err := e.ExtractBytes([]byte(productHTML), ".html", Options{Collection: "products", Kind: models.KindProduct})
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 products, got %d", len(items))
	}

	p := items[0]
	if p.ID != "bamboo-set" || p.Title != "Bamboo Set" || p.CategoryLabel != "Home & Kitchen" {
		t.Errorf("product = %+v", p)
	}
	want := map[string]float64{"price": 34.99, "original_price": 44.99, "rating": 4, "reviews": 128}
	if !reflect.DeepEqual(p.Attributes, want) {
		t.Errorf("attributes = %v, want %v", p.Attributes, want)
	}
	if !reflect.DeepEqual(p.BadgeNames(), []string{"featured", "new"}) {
		t.Errorf("badges = %v", p.BadgeNames())
	}

	jars := items[1]
	if jars.ID != "jars" || jars.Category != models.DefaultCategory {
		t.Errorf("jars = %+v", jars)
	}
	if _, ok := jars.Attribute(models.AttrPrice); ok {
		t.Error("non-numeric price should be absent")
	}
	if len(jars.Badges) != 0 {
		t.Errorf("no badge element, got %v", jars.Badges)
	}
}

func TestExtractBytes_emptyKindFallsBackToProducts(t *testing.T) {
	items, err := NewExtractor().ExtractBytes([]byte(productHTML), ".htm", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Errorf("expected products, got %d items", len(items))
	}
}

func TestExtractBytes_records(t *testing.T) {
	jsonDoc := `{"items": [
		{"id": "p1", "name": "Bamboo Set", "category": "Home", "price": "$34.99", "rating": "★★★★★",
		 "features": "Biodegradable, Vegan", "featured": true, "attributes": {"weight": 0.4}},
		{"title": "Glass Jars", "price": 52.99, "date": "2024-01-02", "badges": ["Sale"], "color": "green"}
	]}`
	yamlDoc := `
items:
  - id: p1
    name: Bamboo Set
    category: home
    price: "$34.99"
    rating: "★★★★★"
    features: [Biodegradable, Vegan]
    featured: true
    attributes:
      weight: 0.4
  - title: Glass Jars
    price: 52.99
    date: 2024-01-02
    badges: [Sale]
    color: green
`
	for ext, doc := range map[string]string{".json": jsonDoc, ".yaml": yamlDoc} {
		t.Run(ext, func(t *testing.T) {
			items, err := NewExtractor().ExtractBytes([]byte(doc), ext, Options{Collection: "products", Kind: models.KindProduct})
			if err != nil {
				t.Fatalf("ExtractBytes: %v", err)
			}
			if len(items) != 2 {
				t.Fatalf("expected 2 items, got %d", len(items))
			}
			a, b := items[0], items[1]
			if a.ID != "p1" || a.Category != "home" || a.Title != "Bamboo Set" {
				t.Errorf("first = %+v", a)
			}
			if !reflect.DeepEqual(a.Tags, []string{"Biodegradable", "Vegan"}) {
				t.Errorf("tags = %v", a.Tags)
			}
			want := map[string]float64{"price": 34.99, "rating": 5, "weight": 0.4}
			if !reflect.DeepEqual(a.Attributes, want) {
				t.Errorf("attributes = %v", a.Attributes)
			}
			if !a.HasBadge("featured") {
				t.Error("boolean field should become a badge")
			}
			if b.Category != models.DefaultCategory || !b.HasBadge("sale") {
				t.Errorf("second = %+v", b)
			}
			if _, ok := b.Attribute("color"); ok {
				t.Error("non-numeric text should not become an attribute")
			}
			if !b.PublishedAt.Equal(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)) {
				t.Errorf("date = %v", b.PublishedAt)
			}
			if !itemid.Valid(b.ID) {
				t.Errorf("expected derived id, got %q", b.ID)
			}
		})
	}
}

func TestExtractBytes_recordErrors(t *testing.T) {
	e := NewExtractor()
	for _, doc := range []string{`{"products": []}`, `{"items": 3}`, `[1, 2]`, `{`} {
		if _, err := e.ExtractBytes([]byte(doc), ".json", Options{}); err == nil {
			t.Errorf("expected error for %s", doc)
		}
	}
}

func TestExtractBytes_excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"ID", "Name", "Category", "Price", "Rating", "Tags", "Stock Level"},
		{"p1", "Bamboo Set", "home", "$34.99", "★★★★☆", "Vegan; GOTS", "12"},
		{},
		{"", "Glass Jars", "", "52.99"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	items, err := NewExtractor().ExtractBytes(buf.Bytes(), ".xlsx", Options{Collection: "products", Kind: models.KindProduct})
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (blank row skipped), got %d", len(items))
	}
	want := map[string]float64{"price": 34.99, "rating": 4, "stock_level": 12}
	if !reflect.DeepEqual(items[0].Attributes, want) {
		t.Errorf("attributes = %v", items[0].Attributes)
	}
	if !reflect.DeepEqual(items[0].Tags, []string{"Vegan", "GOTS"}) {
		t.Errorf("tags = %v", items[0].Tags)
	}
	if items[1].Title != "Glass Jars" || items[1].Category != models.DefaultCategory {
		t.Errorf("second = %+v", items[1])
	}
}

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Eco Blog</title>
  <item>
    <guid>post-1</guid>
    <title>Composting 101</title>
    <link>https://example.com/composting</link>
    <description>&lt;p&gt;Start a &lt;b&gt;compost&lt;/b&gt; bin.&lt;/p&gt;</description>
    <category>Green Living</category>
    <category>Garden</category>
    <pubDate>Mon, 04 Mar 2024 10:00:00 +0000</pubDate>
  </item>
  <item><title>Untagged</title></item>
</channel></rss>`

func TestExtractBytes_feed(t *testing.T) {
	items, err := NewExtractor().ExtractBytes([]byte(rssFeed), ".rss", Options{Collection: "blog", Kind: models.KindPost})
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(items))
	}
	p := items[0]
	if p.ID != "post-1" || p.Category != "green-living" || p.CategoryLabel != "Green Living" {
		t.Errorf("post = %+v", p)
	}
	if p.Excerpt != "Start a compost bin." {
		t.Errorf("excerpt = %q", p.Excerpt)
	}
	if !reflect.DeepEqual(p.Tags, []string{"Green Living", "Garden"}) {
		t.Errorf("tags = %v", p.Tags)
	}
	if p.PublishedAt.Year() != 2024 || p.PublishedAt.Month() != time.March {
		t.Errorf("date = %v", p.PublishedAt)
	}
	if items[1].Category != models.DefaultCategory {
		t.Errorf("uncategorized post = %q", items[1].Category)
	}
}

func TestExtract_sqlite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	err = store.PutItems(ctx, "products", []*models.ListItem{
		{ID: "p1", Category: "home", Title: "Bamboo Set"},
		{ID: "p2", Category: "", Title: "Glass Jars"},
	})
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	items, err := NewExtractor().Extract(ctx, path, Options{Collection: "products", Kind: models.KindProduct})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 2 || items[0].CategoryLabel != "Home & Kitchen" || items[1].Category != models.DefaultCategory {
		t.Errorf("items = %+v %+v", items[0], items[1])
	}
}

func TestExtract_file(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blog.html")
	if err := os.WriteFile(path, []byte(blogHTML), 0600); err != nil {
		t.Fatal(err)
	}
	items, err := NewExtractor().Extract(context.Background(), path, Options{Collection: "blog"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 posts, got %d", len(items))
	}
	if _, err := NewExtractor().Extract(context.Background(), filepath.Join(dir, "missing.html"), Options{}); err == nil {
		t.Error("missing file should fail")
	}
}

func TestExtractBytes_unsupported(t *testing.T) {
	if _, err := NewExtractor().ExtractBytes([]byte("x"), ".pdf", Options{}); err == nil {
		t.Error("expected unsupported format error")
	}
}

func TestSupported(t *testing.T) {
	for path, want := range map[string]bool{
		"a/blog.html": true, "b.YAML": true, "c.xlsx": true, "d.rss": true, "e.db": true, "f.pdf": false, "g": false,
	} {
		if got := Supported(path); got != want {
			t.Errorf("Supported(%q) = %v", path, got)
		}
	}
}
