package ranking

import (
	"github.com/hyperjump/storefront/internal/models"
)

// Ranker combines field scorers into a weighted relevance score.
type Ranker struct {
	config   *WeightsConfig
	analyzer *QueryAnalyzer
	scorers  []Scorer
}

// NewRanker creates a new Ranker with the given weights.
func NewRanker(config *WeightsConfig) *Ranker {
	if config == nil {
		config = DefaultWeightsConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		config:   config,
		analyzer: NewQueryAnalyzer(),
		scorers:  DefaultScorers(),
	}
}

// WithScorers sets custom scorers.
func (r *Ranker) WithScorers(scorers []Scorer) *Ranker {
	r.scorers = scorers
	return r
}

// AnalyzeQuery parses a query string.
func (r *Ranker) AnalyzeQuery(query string) *AnalyzedQuery {
	return r.analyzer.Analyze(query)
}

// Rank returns the weighted score of item:
// Score = Wt*St + Wc*Sc + Wg*Sg + We*Se, where S is the number of terms found in the field.
func (r *Ranker) Rank(query *AnalyzedQuery, item *models.ListItem) float64 {
	score := 0.0
	for _, s := range r.scorers {
		score += r.config.Weight(s.Field()) * s.Score(query, item)
	}
	return score
}

// RankWithBreakdown returns detailed per-field scoring information.
func (r *Ranker) RankWithBreakdown(query *AnalyzedQuery, item *models.ListItem) *ScoreBreakdown {
	breakdown := NewScoreBreakdown()
	if query.Empty() || item == nil {
		return breakdown
	}
	for _, s := range r.scorers {
		weighted := r.config.Weight(s.Field()) * s.Score(query, item)
		if weighted == 0 {
			continue
		}
		breakdown.FieldScores[s.Field()] = weighted
		breakdown.MatchedTerms[s.Field()] = MatchingTerms(query.Terms, FieldText(item, s.Field()))
		breakdown.FinalScore += weighted
	}
	return breakdown
}

// ScoreItems scores every item in source order. An item is visible iff its score is positive.
func (r *Ranker) ScoreItems(query *AnalyzedQuery, items []*models.ListItem) []*models.MatchResult {
	results := make([]*models.MatchResult, 0, len(items))
	for _, item := range items {
		score := r.Rank(query, item)
		results = append(results, &models.MatchResult{
			Item:    item,
			Score:   score,
			Visible: score > 0,
		})
	}
	return results
}

// GetConfig returns the weights configuration.
func (r *Ranker) GetConfig() *WeightsConfig {
	return r.config
}
