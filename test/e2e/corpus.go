// Package e2e provides end-to-end tests with a generated product catalog and many listing queries.
package e2e

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Product is one catalog entry of the E2E corpus.
type Product struct {
	ID          string
	Name        string
	Category    string
	Description string
	Tags        []string
	Price       float64
	Rating      int
	New         bool
}

// QueryTestCase is a set of listing parameters and what the listing must return.
// When ExpectedFirst is set only the top result is checked; otherwise the
// listing must equal ExpectedIDs in order.
type QueryTestCase struct {
	Description   string
	Values        url.Values
	ExpectedFirst string
	ExpectedIDs   []string
}

// Corpus holds products and query test cases for E2E tests.
type Corpus struct {
	Products     []Product
	TestCases    []QueryTestCase
	TotalItems   int
	TotalQueries int
}

var signatures = []string{
	"Bamboo Toothbrush", "Beeswax Wraps", "Hemp Tote", "Glass Jars", "Cork Yoga Mat",
	"Loofah Sponge", "Copper Bottle", "Linen Napkins", "Shampoo Bar", "Compost Bin",
	"Wool Dryer Balls", "Steel Straws", "Soy Candle", "Jute Rug", "Coconut Bowl",
	"Organic Tea", "Seed Paper", "Cotton Produce Bags", "Solar Lantern", "Rattan Basket",
	"Silk Floss", "Clay Planter", "Recycled Notebook", "Charcoal Filter", "Oat Soap",
	"Merino Socks", "Acacia Board", "Pine Comb", "Kelp Snacks", "Olive Oil Soap",
	"Tencel Shirt", "Chia Pudding", "Walnut Spoon", "Sisal Brush", "Birch Cutlery",
	"Lavender Balm", "Canvas Apron", "Maple Syrup", "Felt Coasters", "Agave Nectar",
}

var categories = []string{"home", "beauty", "fashion", "food"}

var certTags = [][]string{
	{"USDA Organic"},
	{"Vegan", "Cruelty-free"},
	{"GOTS Certified"},
	{"Fair Trade"},
	nil,
}

// BuildCorpus returns a corpus of 40 products and the listing cases run against it.
// Each product name carries a unique signature phrase so searches can assert the exact order.
func BuildCorpus() *Corpus {
	products := buildProducts()
	cases := buildQueryTestCases(products)
	return &Corpus{
		Products:     products,
		TestCases:    cases,
		TotalItems:   len(products),
		TotalQueries: len(cases),
	}
}

func buildProducts() []Product {
	products := make([]Product, 0, len(signatures))
	for i, sig := range signatures {
		products = append(products, Product{
			ID:          fmt.Sprintf("p%03d", i+1),
			Name:        sig,
			Category:    categories[i%len(categories)],
			Description: fmt.Sprintf("Item number %d of the sustainable range.", i+1),
			Tags:        certTags[i%len(certTags)],
			Price:       5 + float64(i%16)*2.5,
			Rating:      1 + i%5,
			New:         i%7 == 0,
		})
	}
	return products
}

func buildQueryTestCases(products []Product) []QueryTestCase {
	var cases []QueryTestCase

	// Every signature phrase ranks its product first: both words hit the title.
	for _, p := range products {
		cases = append(cases, QueryTestCase{
			Description:   "search " + p.Name,
			Values:        url.Values{"search": {strings.ToLower(p.Name)}},
			ExpectedFirst: p.ID,
		})
	}

	for _, cat := range categories {
		cases = append(cases, QueryTestCase{
			Description: "category " + cat,
			Values:      url.Values{"category": {cat}},
			ExpectedIDs: ids(filterProducts(products, func(p Product) bool { return p.Category == cat })),
		})
	}

	cheapHome := filterProducts(products, func(p Product) bool { return p.Category == "home" && p.Price <= 20 })
	sort.SliceStable(cheapHome, func(i, j int) bool { return cheapHome[i].Price < cheapHome[j].Price })
	cases = append(cases, QueryTestCase{
		Description: "home under 20 by price",
		Values:      url.Values{"category": {"home"}, "max_price": {"20"}, "sort": {"price-low"}},
		ExpectedIDs: ids(cheapHome),
	})

	byRating := filterProducts(products, func(p Product) bool { return p.Rating >= 4 })
	sort.SliceStable(byRating, func(i, j int) bool { return byRating[i].Rating > byRating[j].Rating })
	cases = append(cases, QueryTestCase{
		Description: "rating at least 4 sorted by rating",
		Values:      url.Values{"min_rating": {"4"}, "sort": {"rating"}},
		ExpectedIDs: ids(byRating),
	})

	cases = append(cases, QueryTestCase{
		Description: "vegan or gots certification",
		Values:      url.Values{"cert": {"vegan", "gots"}},
		ExpectedIDs: ids(filterProducts(products, func(p Product) bool {
			return hasTag(p, "Vegan") || hasTag(p, "GOTS Certified")
		})),
	})

	cases = append(cases, QueryTestCase{
		Description: "search and category are combined",
		Values:      url.Values{"search": {"soap"}, "category": {"beauty"}},
		ExpectedIDs: ids(filterProducts(products, func(p Product) bool {
			return p.Category == "beauty" && strings.Contains(strings.ToLower(p.Name), "soap")
		})),
	})

	cases = append(cases, QueryTestCase{
		Description: "unmatched search is empty",
		Values:      url.Values{"search": {"zeppelin"}},
		ExpectedIDs: []string{},
	})
	return cases
}

func filterProducts(products []Product, keep func(Product) bool) []Product {
	out := []Product{}
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func hasTag(p Product, tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
