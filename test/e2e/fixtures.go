package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// SupportedFormats are the source formats the corpus is written in for E2E runs.
var SupportedFormats = []string{".html", ".json", ".yaml", ".xlsx"}

// Render returns the corpus products encoded as a source file of the given extension.
func Render(ext string, products []Product) ([]byte, error) {
	switch ext {
	case ".html":
		return renderHTML(products), nil
	case ".json":
		return json.MarshalIndent(map[string]any{"items": records(products)}, "", "  ")
	case ".yaml":
		return yaml.Marshal(map[string]any{"items": records(products)})
	case ".xlsx":
		return renderXLSX(products)
	default:
		return nil, fmt.Errorf("unsupported fixture format %q", ext)
	}
}

// renderHTML writes a product grid in the same markup the storefront pages use.
func renderHTML(products []Product) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><body><div class=\"products-grid\">\n")
	for _, p := range products {
		fmt.Fprintf(&b, "<div class=\"product-card\" data-category=\"%s\">\n", p.Category)
		if p.New {
			b.WriteString("  <span class=\"product-badge new\">New</span>\n")
		}
		fmt.Fprintf(&b, "  <h3 class=\"product-name\">%s</h3>\n", html.EscapeString(p.Name))
		fmt.Fprintf(&b, "  <p class=\"product-description\">%s</p>\n", html.EscapeString(p.Description))
		b.WriteString("  <div class=\"product-features\">")
		for _, t := range p.Tags {
			fmt.Fprintf(&b, "<span class=\"feature-tag\">%s</span>", html.EscapeString(t))
		}
		b.WriteString("</div>\n")
		fmt.Fprintf(&b, "  <span class=\"stars\">%s%s</span>\n",
			strings.Repeat("★", p.Rating), strings.Repeat("☆", 5-p.Rating))
		fmt.Fprintf(&b, "  <span class=\"current-price\">$%.2f</span>\n", p.Price)
		fmt.Fprintf(&b, "  <button class=\"quick-view-btn\" data-product=\"%s\">Quick View</button>\n", p.ID)
		b.WriteString("</div>\n")
	}
	b.WriteString("</div></body></html>\n")
	return []byte(b.String())
}

func records(products []Product) []map[string]any {
	out := make([]map[string]any, 0, len(products))
	for _, p := range products {
		rec := map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"category":    p.Category,
			"description": p.Description,
			"price":       p.Price,
			"rating":      p.Rating,
		}
		if len(p.Tags) > 0 {
			rec["tags"] = p.Tags
		}
		if p.New {
			rec["new"] = true
		}
		out = append(out, rec)
	}
	return out
}

func renderXLSX(products []Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := []interface{}{"ID", "Name", "Category", "Description", "Tags", "Price", "Rating", "Badges"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, p := range products {
		badges := ""
		if p.New {
			badges = "new"
		}
		row := []interface{}{
			p.ID, p.Name, p.Category, p.Description, strings.Join(p.Tags, "; "),
			strconv.FormatFloat(p.Price, 'f', 2, 64), strconv.Itoa(p.Rating), badges,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
