package utils

import (
	"math"
	"strconv"
)

// FormatCount renders a counter the way the site's stat counters do:
// one decimal with a K suffix from 1000, a whole number from 100, and one
// decimal below that.
func FormatCount(n float64) string {
	switch {
	case n >= 1000:
		return strconv.FormatFloat(n/1000, 'f', 1, 64) + "K"
	case n >= 100:
		return strconv.FormatFloat(math.Floor(n), 'f', 0, 64)
	default:
		return strconv.FormatFloat(n, 'f', 1, 64)
	}
}
