package ranking

import (
	"strings"
)

// QueryAnalyzer splits free-text queries into match terms.
type QueryAnalyzer struct{}

// NewQueryAnalyzer creates a new QueryAnalyzer.
func NewQueryAnalyzer() *QueryAnalyzer {
	return &QueryAnalyzer{}
}

// Analyze lowercases the query and splits it on whitespace. Empty terms are
// dropped; punctuation and duplicates are kept as typed.
func (qa *QueryAnalyzer) Analyze(query string) *AnalyzedQuery {
	return &AnalyzedQuery{
		Original: query,
		Terms:    strings.Fields(strings.ToLower(query)),
	}
}

// MatchingTerms returns the terms found as substrings of text, in query order.
func MatchingTerms(terms []string, text string) []string {
	var matched []string
	for _, term := range terms {
		if strings.Contains(text, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

// CountMatchingTerms counts how many query terms are found in the lowercased text.
func CountMatchingTerms(terms []string, text string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			count++
		}
	}
	return count
}
