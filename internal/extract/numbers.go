package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numberRe = regexp.MustCompile(`-?(?:\d[\d,]*(?:\.\d+)?|\.\d+)`)
	viewsRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([kKmM])?`)
)

const (
	fullStar  = '★'
	emptyStar = '☆'
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseNumber returns the first number in s, ignoring currency symbols and
// thousands separators: "$1,234.50" is 1234.5. ok is false when s has no number.
func ParseNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseViews parses a view counter such as "1.2k views" (1200) or "850 views".
func ParseViews(s string) (float64, bool) {
	m := viewsRe.FindStringSubmatch(strings.ReplaceAll(s, ",", ""))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "k":
		v *= 1000
	case "m":
		v *= 1_000_000
	}
	return v, true
}

// CountStars returns the number of filled stars in s ("★★★★☆" is 4). Text
// without star glyphs is read as a plain number when it holds one, and as
// zero otherwise. ok is false only for blank text.
func CountStars(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	full, empty := 0, 0
	for _, r := range s {
		switch r {
		case fullStar:
			full++
		case emptyStar:
			empty++
		}
	}
	if full == 0 && empty == 0 {
		if v, ok := ParseNumber(s); ok {
			return v, true
		}
	}
	return float64(full), true
}

// ParseDate parses the date formats used by post cards and feeds.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAttribute reads a named attribute from display text.
func parseAttribute(name, text string) (float64, bool) {
	switch name {
	case "rating", "stars":
		return CountStars(text)
	case "views":
		return ParseViews(text)
	default:
		return ParseNumber(text)
	}
}
