package models

// MatchResult pairs an item with its filter outcome.
// Under text search Score is zero exactly when Visible is false; without a text
// filter Visible is a plain predicate and Score stays zero.
type MatchResult struct {
	Item    *ListItem `json:"item"`
	Score   float64   `json:"score"`
	Visible bool      `json:"visible"`
}

// Page is one clamped page of an ordered id sequence.
type Page struct {
	Number     int      `json:"number"`
	Size       int      `json:"size"`
	TotalPages int      `json:"total_pages"`
	TotalItems int      `json:"total_items"`
	HasPrev    bool     `json:"has_prev"`
	HasNext    bool     `json:"has_next"`
	IDs        []string `json:"ids"`
}

// Listing is the pipeline output handed to the presentation layer.
type Listing struct {
	Collection string         `json:"collection,omitempty"`
	Query      string         `json:"query,omitempty"`
	Matches    []*MatchResult `json:"matches"`
	IDs        []string       `json:"ids"`
	Total      int            `json:"total"`
	Page       *Page          `json:"page,omitempty"`
}

// Empty reports whether no item passed the filters.
func (l *Listing) Empty() bool {
	return l.Total == 0
}

// PageMatches returns the matches belonging to the current page, in page order.
// Without a page it returns all matches.
func (l *Listing) PageMatches() []*MatchResult {
	if l.Page == nil {
		return l.Matches
	}
	start := (l.Page.Number - 1) * l.Page.Size
	if start < 0 {
		start = 0
	}
	if start > len(l.Matches) {
		start = len(l.Matches)
	}
	end := start + len(l.Page.IDs)
	if end > len(l.Matches) {
		end = len(l.Matches)
	}
	return l.Matches[start:end]
}
