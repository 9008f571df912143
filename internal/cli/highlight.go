package cli

import (
	"sort"
	"strings"

	"github.com/hyperjump/storefront/internal/ranking"
)

type span struct{ start, end int }

// Highlight marks every case-insensitive occurrence of the query terms in text.
func Highlight(text, query string) string {
	terms := ranking.NewQueryAnalyzer().Analyze(query).Terms
	spans := matchSpans(text, terms)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(text[prev:s.start])
		b.WriteString(HighlightStyle.Render(text[s.start:s.end]))
		prev = s.end
	}
	b.WriteString(text[prev:])
	return b.String()
}

// matchSpans returns the merged byte ranges of text covered by terms.
// Text whose lowercase form changes byte length is left unmarked.
func matchSpans(text string, terms []string) []span {
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		return nil
	}
	var spans []span
	for _, term := range terms {
		if term == "" {
			continue
		}
		for from := 0; from < len(lower); {
			i := strings.Index(lower[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, span{start, start + len(term)})
			from = start + len(term)
		}
	}
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
