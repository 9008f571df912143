// Package utils provides shared utilities for text, number formatting, and logging.
package utils

import (
	"strings"
	"unicode"
)

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return strings.TrimRightFunc(string(runes[:maxLen]), unicode.IsSpace) + "..."
}

// Slugify lowercases s and joins its letter/digit runs with hyphens:
// "Home & Kitchen" becomes "home-kitchen".
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// CollapseSpace trims s and replaces every whitespace run with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
