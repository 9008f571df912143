// Package ranking provides relevance scoring of listing items against free-text queries.
package ranking

import (
	"strings"

	"github.com/hyperjump/storefront/internal/models"
)

// Field identifies a scored text field of a listing item.
type Field int

const (
	// FieldTitle is the post title or product name.
	FieldTitle Field = iota
	// FieldCategory is the category key plus its display label.
	FieldCategory
	// FieldTags is the keyword set (post tags or product feature tags).
	FieldTags
	// FieldExcerpt is the post excerpt or product description.
	FieldExcerpt
)

// Fields lists every scored field in scoring order.
var Fields = []Field{FieldTitle, FieldCategory, FieldTags, FieldExcerpt}

// String returns a string representation of the field.
func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldCategory:
		return "category"
	case FieldTags:
		return "tags"
	case FieldExcerpt:
		return "excerpt"
	default:
		return "unknown"
	}
}

// FieldText returns the lowercased searchable text of field f.
// Tags are joined with single spaces; since terms never contain whitespace a
// term matches the joined text exactly when it matches some tag.
func FieldText(item *models.ListItem, f Field) string {
	switch f {
	case FieldTitle:
		return strings.ToLower(item.Title)
	case FieldCategory:
		if item.CategoryLabel == "" {
			return strings.ToLower(item.Category)
		}
		return strings.ToLower(item.Category + " " + item.CategoryLabel)
	case FieldTags:
		return strings.ToLower(strings.Join(item.Tags, " "))
	case FieldExcerpt:
		return strings.ToLower(item.Excerpt)
	default:
		return ""
	}
}

// AnalyzedQuery holds the parsed form of a free-text query.
type AnalyzedQuery struct {
	// Original is the query as typed.
	Original string
	// Terms are the lowercased whitespace-separated terms, duplicates kept.
	Terms []string
}

// Empty reports whether the query has no usable terms.
func (q *AnalyzedQuery) Empty() bool {
	return q == nil || len(q.Terms) == 0
}

// Scorer is the interface for field scoring components.
type Scorer interface {
	// Score returns the raw (unweighted) score of item for the query.
	Score(query *AnalyzedQuery, item *models.ListItem) float64
	// Field returns the field this scorer reads.
	Field() Field
}

// ScoreBreakdown provides per-field scoring detail for debugging.
type ScoreBreakdown struct {
	// FinalScore is the weighted sum over all fields.
	FinalScore float64
	// FieldScores holds the weighted contribution of each field.
	FieldScores map[Field]float64
	// MatchedTerms maps each field to the terms found in it.
	MatchedTerms map[Field][]string
}

// NewScoreBreakdown creates a new ScoreBreakdown instance.
func NewScoreBreakdown() *ScoreBreakdown {
	return &ScoreBreakdown{
		FieldScores:  make(map[Field]float64),
		MatchedTerms: make(map[Field][]string),
	}
}
