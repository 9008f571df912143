package pipeline

import (
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/storefront/internal/models"
)

func twoItems() []*models.ListItem {
	return []*models.ListItem{
		{ID: "1", Title: "Bamboo Set", Category: "home", Attributes: map[string]float64{"price": 34.99}},
		{ID: "2", Title: "Glass Jars", Category: "home", Attributes: map[string]float64{"price": 52.99}},
	}
}

func posts() []*models.ListItem {
	d := func(day int) time.Time { return time.Date(2024, time.May, day, 0, 0, 0, 0, time.UTC) }
	return []*models.ListItem{
		{ID: "a", Title: "Zero waste kitchen", Category: "green-living", PublishedAt: d(3), Attributes: map[string]float64{"views": 1200}},
		{ID: "b", Title: "Bamboo toothbrush review", Category: "reviews", Excerpt: "kitchen friendly", PublishedAt: d(9), Attributes: map[string]float64{"views": 800}},
		{ID: "c", Title: "Kitchen compost guide", Category: "green-living", Tags: []string{"kitchen"}, PublishedAt: d(1)},
		{ID: "d", Title: "Natural lip balm", Category: "beauty", PublishedAt: d(5), Attributes: map[string]float64{"views": 2500}},
	}
}

func TestRun_PriceFilterSortAndSearch(t *testing.T) {
	p := New(nil, WithLogger(zap.NewNop()))
	price := 40.0

	got := p.Run("products", twoItems(), &models.ListingQuery{MaxPrice: &price})
	if !reflect.DeepEqual(got.IDs, []string{"1"}) {
		t.Errorf("price <= 40: got %v", got.IDs)
	}

	got = p.Run("products", twoItems(), &models.ListingQuery{Sort: "price-low"})
	if !reflect.DeepEqual(got.IDs, []string{"1", "2"}) {
		t.Errorf("price ascending: got %v", got.IDs)
	}

	got = p.Run("products", twoItems(), &models.ListingQuery{Search: "bamboo"})
	if !reflect.DeepEqual(got.IDs, []string{"1"}) {
		t.Fatalf("search bamboo: got %v", got.IDs)
	}
	if got.Matches[0].Score != 3 {
		t.Errorf("bamboo score = %v, want 3", got.Matches[0].Score)
	}
}

func TestRun_EmptyQuerySelectsAllInSourceOrder(t *testing.T) {
	p := New(nil)
	for _, q := range []*models.ListingQuery{nil, {}, {Search: "  "}, {Category: "all"}} {
		got := p.Run("blog", posts(), q)
		if !reflect.DeepEqual(got.IDs, []string{"a", "b", "c", "d"}) {
			t.Errorf("query %+v: got %v", q, got.IDs)
		}
		if got.Page != nil {
			t.Error("no page requested, listing should not be paginated")
		}
	}
}

func TestRun_SearchDefaultsToRelevance(t *testing.T) {
	p := New(nil)
	// c: title 3 + tags 2 = 5, a: title 3, b: excerpt 1
	got := p.Run("blog", posts(), &models.ListingQuery{Search: "kitchen"})
	if !reflect.DeepEqual(got.IDs, []string{"c", "a", "b"}) {
		t.Errorf("got %v", got.IDs)
	}

	got = p.Run("blog", posts(), &models.ListingQuery{Search: "kitchen", Sort: "newest"})
	if !reflect.DeepEqual(got.IDs, []string{"b", "a", "c"}) {
		t.Errorf("explicit sort should win over relevance, got %v", got.IDs)
	}
}

func TestRun_PopularKeepsUnviewedLast(t *testing.T) {
	got := New(nil).Run("blog", posts(), &models.ListingQuery{Sort: "popular"})
	if !reflect.DeepEqual(got.IDs, []string{"d", "a", "b", "c"}) {
		t.Errorf("got %v", got.IDs)
	}
}

func TestRun_UnknownSortKeepsSourceOrder(t *testing.T) {
	got := New(nil).Run("blog", posts(), &models.ListingQuery{Sort: "random"})
	if !reflect.DeepEqual(got.IDs, []string{"a", "b", "c", "d"}) {
		t.Errorf("got %v", got.IDs)
	}
}

func TestRun_UnknownSortOnProductsIsFeatured(t *testing.T) {
	p := New(nil, WithCollectionKinds(map[string]models.Kind{"shop": models.KindProduct}))
	items := twoItems()
	items[1].Badges = map[string]bool{models.BadgeFeatured: true}

	got := p.Run("shop", items, &models.ListingQuery{Sort: "random"})
	if !reflect.DeepEqual(got.IDs, []string{"2", "1"}) {
		t.Errorf("product fallback: got %v", got.IDs)
	}
	got = p.Run("shop", items, &models.ListingQuery{})
	if !reflect.DeepEqual(got.IDs, []string{"1", "2"}) {
		t.Errorf("no sort should keep source order, got %v", got.IDs)
	}
	got = p.Run("other", items, &models.ListingQuery{Sort: "random"})
	if !reflect.DeepEqual(got.IDs, []string{"1", "2"}) {
		t.Errorf("unlisted collection: got %v", got.IDs)
	}
}

func TestRun_Pagination(t *testing.T) {
	p := New(nil, WithPageSize(3))
	got := p.Run("blog", posts(), &models.ListingQuery{Page: 7})
	if got.Page == nil {
		t.Fatal("expected a page")
	}
	if got.Page.Number != 2 || got.Page.TotalPages != 2 {
		t.Errorf("page = %+v", got.Page)
	}
	if !reflect.DeepEqual(got.Page.IDs, []string{"d"}) {
		t.Errorf("page ids = %v", got.Page.IDs)
	}
	if pm := got.PageMatches(); len(pm) != 1 || pm[0].Item.ID != "d" {
		t.Errorf("PageMatches = %v", pm)
	}
	if got.Total != 4 {
		t.Errorf("Total = %d, want 4", got.Total)
	}

	got = p.Run("blog", posts(), &models.ListingQuery{PageSize: 2})
	if got.Page.Number != 1 || !reflect.DeepEqual(got.Page.IDs, []string{"a", "b"}) {
		t.Errorf("explicit size: %+v", got.Page)
	}
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	items := posts()
	New(nil).Run("blog", items, &models.ListingQuery{Sort: "oldest"})
	var order []string
	for _, it := range items {
		order = append(order, it.ID)
	}
	if !reflect.DeepEqual(order, []string{"a", "b", "c", "d"}) {
		t.Errorf("input reordered: %v", order)
	}
}

func TestRun_EmptyResult(t *testing.T) {
	got := New(nil).Run("blog", posts(), &models.ListingQuery{Search: "zeppelin", Page: 1})
	if !got.Empty() || len(got.IDs) != 0 {
		t.Errorf("expected empty listing, got %v", got.IDs)
	}
	if got.Page.Number != 1 || got.Page.TotalPages != 1 {
		t.Errorf("empty page = %+v", got.Page)
	}
}
