// Package cli renders listings, categories and collections for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/storefront/internal/catalog"
	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable styled text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const excerptLen = 120

// WriteListing writes the current page of a listing (or all of it when the
// listing is not paginated) to w in the given format.
func WriteListing(w io.Writer, listing *models.Listing, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, listing)
	}
	writeListingText(w, listing)
	return nil
}

func writeListingText(w io.Writer, listing *models.Listing) {
	header := fmt.Sprintf("%d items", listing.Total)
	if listing.Collection != "" {
		header = listing.Collection + ": " + header
	}
	if listing.Query != "" {
		header += fmt.Sprintf(" matching %q", listing.Query)
	}
	fmt.Fprintln(w, HeaderStyle.Render(header))
	fmt.Fprintln(w)

	if listing.Empty() {
		fmt.Fprintln(w, DimStyle.Render("No items match the current filters."))
		return
	}

	offset := 0
	if listing.Page != nil {
		offset = (listing.Page.Number - 1) * listing.Page.Size
	}
	for i, m := range listing.PageMatches() {
		writeItem(w, offset+i+1, m, listing.Query)
	}

	if p := listing.Page; p != nil {
		status := fmt.Sprintf("Page %d of %d", p.Number, p.TotalPages)
		var nav []string
		if p.HasPrev {
			nav = append(nav, "prev")
		}
		if p.HasNext {
			nav = append(nav, "next")
		}
		if len(nav) > 0 {
			status += " (" + strings.Join(nav, ", ") + ")"
		}
		fmt.Fprintln(w, StatusStyle.Render(status))
	}
}

func writeItem(w io.Writer, n int, m *models.MatchResult, query string) {
	it := m.Item
	line := fmt.Sprintf("%d. %s", n, TitleStyle.Render(Highlight(it.Title, query)))
	if label := categoryLabel(it); label != "" {
		line += "  " + CategoryStyle.Render("["+label+"]")
	}
	if m.Score > 0 {
		line += "  " + DimStyle.Render(fmt.Sprintf("score %g", m.Score))
	}
	fmt.Fprintln(w, line)

	if details := itemDetails(it); len(details) > 0 {
		fmt.Fprintln(w, "   "+strings.Join(details, "  "))
	}
	if it.Excerpt != "" {
		fmt.Fprintln(w, "   "+Highlight(utils.Truncate(it.Excerpt, excerptLen), query))
	}
	if len(it.Tags) > 0 {
		fmt.Fprintln(w, "   "+DimStyle.Render(strings.Join(it.Tags, " · ")))
	}
	if it.Link != "" {
		fmt.Fprintln(w, "   "+LinkStyle.Render(it.Link))
	}
	fmt.Fprintln(w)
}

// itemDetails renders the known numeric attributes, date and badges.
func itemDetails(it *models.ListItem) []string {
	var out []string
	if price, ok := it.Attribute(models.AttrPrice); ok {
		s := PriceStyle.Render(FormatPrice(price))
		if orig, ok := it.Attribute(models.AttrOriginalPrice); ok && orig > price {
			s += " " + StrikeStyle.Render(FormatPrice(orig))
		}
		out = append(out, s)
	}
	if rating, ok := it.Attribute(models.AttrRating); ok {
		s := fmt.Sprintf("★ %.1f", rating)
		if reviews, ok := it.Attribute(models.AttrReviews); ok {
			s += fmt.Sprintf(" (%.0f)", reviews)
		}
		out = append(out, RatingStyle.Render(s))
	}
	if views, ok := it.Attribute(models.AttrViews); ok {
		out = append(out, DimStyle.Render(utils.FormatCount(views)+" views"))
	}
	if it.HasDate() {
		out = append(out, DateStyle.Render(it.PublishedAt.Format("Jan 2, 2006")))
	}
	for _, b := range it.BadgeNames() {
		out = append(out, BadgeStyle.Render("#"+b))
	}
	return out
}

func categoryLabel(it *models.ListItem) string {
	if it.CategoryLabel != "" {
		return it.CategoryLabel
	}
	return it.Category
}

// FormatPrice renders a price with two decimals.
func FormatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// WriteCategories writes a collection's categories with item counts.
func WriteCategories(w io.Writer, categories []catalog.Category, format OutputFormat) error {
	if format == OutputJSON {
		if categories == nil {
			categories = []catalog.Category{}
		}
		return writeJSON(w, categories)
	}
	for _, c := range categories {
		label := c.Label
		if label == "" {
			label = c.Key
		}
		fmt.Fprintf(w, "%s %s %s\n",
			CategoryStyle.Render(fmt.Sprintf("%-20s", c.Key)),
			label,
			DimStyle.Render(fmt.Sprintf("(%d)", c.Count)))
	}
	return nil
}

// WriteCollections writes the configured collections and their load state.
func WriteCollections(w io.Writer, infos []catalog.Info, format OutputFormat) error {
	if format == OutputJSON {
		if infos == nil {
			infos = []catalog.Info{}
		}
		return writeJSON(w, infos)
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%s %s %d items  %s\n",
			TitleStyle.Render(info.Name),
			CategoryStyle.Render("("+string(info.Kind)+")"),
			info.Items,
			DimStyle.Render(info.Source))
		if info.LastError != "" {
			fmt.Fprintln(w, "   "+ErrorStyle.Render(info.LastError))
		}
	}
	return nil
}

// WriteError prints a styled error line.
func WriteError(w io.Writer, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: "+err.Error()))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
