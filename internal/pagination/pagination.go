// Package pagination splits ordered id sequences into clamped pages.
package pagination

import "github.com/hyperjump/storefront/internal/models"

// DefaultPageSize is the number of entries per listing page.
const DefaultPageSize = 6

// TotalPages returns the number of pages for n entries. There is always at least one page.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Clamp moves page into [1, total].
func Clamp(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Paginate returns the requested page of ids. Out-of-range page numbers clamp
// to the nearest valid page; a non-positive size uses DefaultPageSize.
func Paginate(ids []string, page, size int) *models.Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(ids), size)
	page = Clamp(page, total)

	start := (page - 1) * size
	end := start + size
	if start > len(ids) {
		start = len(ids)
	}
	if end > len(ids) {
		end = len(ids)
	}
	pageIDs := make([]string, end-start)
	copy(pageIDs, ids[start:end])

	return &models.Page{
		Number:     page,
		Size:       size,
		TotalPages: total,
		TotalItems: len(ids),
		HasPrev:    page > 1,
		HasNext:    page < total,
		IDs:        pageIDs,
	}
}
