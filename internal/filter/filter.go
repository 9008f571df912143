package filter

import (
	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/internal/ranking"
)

// Filter AND-combines the category, attribute, certification and free-text filters.
type Filter struct {
	ranker *ranking.Ranker
	certs  Certifications
}

// NewFilter creates a filter. Nil arguments fall back to the default ranker and mapping.
func NewFilter(ranker *ranking.Ranker, certs Certifications) *Filter {
	if ranker == nil {
		ranker = ranking.NewRanker(nil)
	}
	if certs == nil {
		certs = DefaultCertifications()
	}
	return &Filter{ranker: ranker, certs: certs}
}

// Apply returns one MatchResult per item, in source order. When the query has
// search terms, visible items carry their relevance score and hidden items score zero.
func (f *Filter) Apply(items []*models.ListItem, q *models.ListingQuery) []*models.MatchResult {
	if q == nil {
		q = &models.ListingQuery{}
	}
	analyzed := f.ranker.AnalyzeQuery(q.Search)
	attrs := q.AttributeFilters()

	results := make([]*models.MatchResult, 0, len(items))
	for _, item := range items {
		visible := MatchCategory(item, q.Category) &&
			MatchAttributes(item, attrs) &&
			f.certs.Matches(item, q.Certifications)

		score := 0.0
		if visible && !analyzed.Empty() {
			score = f.ranker.Rank(analyzed, item)
			visible = score > 0
		}
		results = append(results, &models.MatchResult{Item: item, Score: score, Visible: visible})
	}
	return results
}

// Visible returns the visible results, preserving their relative order.
func Visible(results []*models.MatchResult) []*models.MatchResult {
	out := make([]*models.MatchResult, 0, len(results))
	for _, r := range results {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// Ranker returns the ranker used for free-text scoring.
func (f *Filter) Ranker() *ranking.Ranker {
	return f.ranker
}
