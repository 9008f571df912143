package models

import (
	"net/url"
	"testing"
)

func TestParseAttributeFilter(t *testing.T) {
	tests := []struct {
		expr    string
		want    AttributeFilter
		wantErr bool
	}{
		{"rating>=4", AttributeFilter{Attribute: "rating", Op: OpAtLeast, Threshold: 4}, false},
		{"Price <= 40.5", AttributeFilter{Attribute: "price", Op: OpAtMost, Threshold: 40.5}, false},
		{"price=4", AttributeFilter{}, true},
		{">=4", AttributeFilter{}, true},
		{"rating>=many", AttributeFilter{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseAttributeFilter(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAttributeFilter(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAttributeFilter(%q) = %+v, want %+v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestListingQuery_AttributeFilters(t *testing.T) {
	rating := 4.0
	price := 40.0
	q := &ListingQuery{
		MinRating: &rating,
		MaxPrice:  &price,
		Attrs:     []string{"views>=100", "garbage"},
	}
	filters := q.AttributeFilters()
	if len(filters) != 3 {
		t.Fatalf("expected 3 filters, got %d: %v", len(filters), filters)
	}
	if filters[0].Attribute != AttrRating || filters[0].Op != OpAtLeast {
		t.Errorf("first filter = %v", filters[0])
	}
	if filters[1].Attribute != AttrPrice || filters[1].Op != OpAtMost {
		t.Errorf("second filter = %v", filters[1])
	}
	if filters[2].String() != "views>=100" {
		t.Errorf("third filter = %v", filters[2])
	}
}

func TestDecodeListingQuery(t *testing.T) {
	values := url.Values{
		"category":   {"home"},
		"search":     {"  bamboo set "},
		"cert":       {"Organic", "", "vegan"},
		"max_price":  {"40"},
		"sort":       {"Price-Low"},
		"page":       {"2"},
		"size":       {"12"},
		"irrelevant": {"x"},
	}
	q, err := DecodeListingQuery(values)
	if err != nil {
		t.Fatal(err)
	}
	if q.Category != "home" || q.Search != "bamboo set" {
		t.Errorf("category/search = %q/%q", q.Category, q.Search)
	}
	if len(q.Certifications) != 2 || q.Certifications[0] != "organic" {
		t.Errorf("certifications = %v", q.Certifications)
	}
	if q.MaxPrice == nil || *q.MaxPrice != 40 {
		t.Errorf("max price = %v", q.MaxPrice)
	}
	if q.MinRating != nil {
		t.Errorf("min rating should be unset, got %v", *q.MinRating)
	}
	if q.Sort != "price-low" || q.Page != 2 || q.PageSize != 12 {
		t.Errorf("sort/page/size = %q/%d/%d", q.Sort, q.Page, q.PageSize)
	}
}

func TestListingQuery_SanitizeCategory(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{" Home ", "home"},
		{"BEAUTY", "beauty"},
		{"All", CategoryAll},
		{"", CategoryAll},
	}
	for _, tt := range tests {
		q := &ListingQuery{Category: tt.in}
		q.Sanitize()
		if q.Category != tt.want {
			t.Errorf("Sanitize(%q) category = %q, want %q", tt.in, q.Category, tt.want)
		}
	}
}

func TestDecodeListingQuery_BadNumber(t *testing.T) {
	if _, err := DecodeListingQuery(url.Values{"page": {"two"}}); err == nil {
		t.Error("expected error for non-numeric page")
	}
}

func TestSeedFromValues(t *testing.T) {
	q := SeedFromValues(url.Values{"search": {"jars"}, "sort": {"rating"}})
	if q.Search != "jars" {
		t.Errorf("search = %q", q.Search)
	}
	if !q.AllCategories() {
		t.Errorf("missing category should be the wildcard, got %q", q.Category)
	}
	if q.Sort != "" {
		t.Errorf("seed must ignore sort, got %q", q.Sort)
	}
}

func TestListingQuery_Clone(t *testing.T) {
	rating := 3.0
	q := &ListingQuery{Certifications: []string{"vegan"}, MinRating: &rating}
	c := q.Clone()
	c.Certifications[0] = "gots"
	*c.MinRating = 5
	if q.Certifications[0] != "vegan" || *q.MinRating != 3 {
		t.Error("clone shares state with original")
	}
}
