package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/storefront/internal/models"
)

// extractExcel reads every sheet as a table: the first row names the columns
// and each following non-empty row is one item.
func extractExcel(content []byte) ([]*models.ListItem, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var items []*models.ListItem
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}
		header := rows[0]
		for _, row := range rows[1:] {
			rec := make(map[string]any, len(header))
			for i, cell := range row {
				if i >= len(header) || strings.TrimSpace(header[i]) == "" {
					continue
				}
				if cell = strings.TrimSpace(cell); cell != "" {
					rec[header[i]] = cell
				}
			}
			if len(rec) == 0 {
				continue
			}
			items = append(items, fromRecord(rec))
		}
	}
	return items, nil
}
