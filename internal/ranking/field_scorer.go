package ranking

import "github.com/hyperjump/storefront/internal/models"

// FieldScorer counts query terms contained in one item field.
type FieldScorer struct {
	field Field
}

// NewFieldScorer creates a scorer for field f.
func NewFieldScorer(f Field) *FieldScorer {
	return &FieldScorer{field: f}
}

// Field returns the scored field.
func (s *FieldScorer) Field() Field {
	return s.field
}

// Score returns the number of terms that occur in the field.
func (s *FieldScorer) Score(query *AnalyzedQuery, item *models.ListItem) float64 {
	if query.Empty() || item == nil {
		return 0
	}
	text := FieldText(item, s.field)
	if text == "" {
		return 0
	}
	return float64(CountMatchingTerms(query.Terms, text))
}

// DefaultScorers returns one FieldScorer per scored field.
func DefaultScorers() []Scorer {
	scorers := make([]Scorer, 0, len(Fields))
	for _, f := range Fields {
		scorers = append(scorers, NewFieldScorer(f))
	}
	return scorers
}
