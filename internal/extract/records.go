package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/storefront/internal/models"
)

// Record field aliases. Keys are compared after normalizeKey.
var (
	idKeys       = []string{"id", "sku", "slug"}
	categoryKeys = []string{"category"}
	labelKeys    = []string{"category_label", "category_name"}
	titleKeys    = []string{"title", "name"}
	excerptKeys  = []string{"excerpt", "description", "summary"}
	tagKeys      = []string{"tags", "features"}
	linkKeys     = []string{"link", "url", "href"}
	dateKeys     = []string{"published_at", "date", "published"}
)

func extractJSON(content []byte) ([]*models.ListItem, error) {
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return fromDocument(doc)
}

func extractYAML(content []byte) ([]*models.ListItem, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return fromDocument(doc)
}

// fromDocument accepts either a list of records or a mapping with an "items" list.
func fromDocument(doc any) ([]*models.ListItem, error) {
	var list []any
	switch d := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		list = d
	case map[string]any:
		raw, ok := d["items"]
		if !ok {
			return nil, fmt.Errorf("record file has no items list")
		}
		l, ok := raw.([]any)
		if !ok && raw != nil {
			return nil, fmt.Errorf("items must be a list, got %T", raw)
		}
		list = l
	default:
		return nil, fmt.Errorf("unexpected record document %T", doc)
	}

	items := make([]*models.ListItem, 0, len(list))
	for i, raw := range list {
		rec, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: expected a mapping, got %T", i, raw)
		}
		items = append(items, fromRecord(rec))
	}
	return items, nil
}

// fromRecord maps a loosely-typed record onto a ListItem. Known keys fill the
// text fields; any other scalar becomes a numeric attribute, or a badge when
// it is a boolean true. Values that do not parse are left out.
func fromRecord(rec map[string]any) *models.ListItem {
	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		fields[normalizeKey(k)] = v
	}

	it := &models.ListItem{
		ID:            toString(take(fields, idKeys)),
		Category:      toString(take(fields, categoryKeys)),
		CategoryLabel: toString(take(fields, labelKeys)),
		Title:         toString(take(fields, titleKeys)),
		Excerpt:       toString(take(fields, excerptKeys)),
		Link:          toString(take(fields, linkKeys)),
		Tags:          toStrings(take(fields, tagKeys)),
	}
	if t, ok := toTime(take(fields, dateKeys)); ok {
		it.PublishedAt = t
	}
	for _, b := range toStrings(take(fields, []string{"badges"})) {
		it.AddBadge(strings.ToLower(b))
	}
	if attrs, ok := take(fields, []string{"attributes"}).(map[string]any); ok {
		for k, v := range attrs {
			setAttribute(it, normalizeKey(k), v)
		}
	}
	for k, v := range fields {
		if b, ok := v.(bool); ok {
			if b {
				it.AddBadge(k)
			}
			continue
		}
		setAttribute(it, k, v)
	}
	return it
}

func setAttribute(it *models.ListItem, name string, v any) {
	switch n := v.(type) {
	case float64:
		it.SetAttribute(name, n)
	case int:
		it.SetAttribute(name, float64(n))
	case int64:
		it.SetAttribute(name, float64(n))
	case uint64:
		it.SetAttribute(name, float64(n))
	case string:
		if f, ok := parseAttribute(name, n); ok {
			it.SetAttribute(name, f)
		}
	}
}

// take removes and returns the first present alias.
func take(fields map[string]any, keys []string) any {
	var found any
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			delete(fields, k)
			if found == nil {
				found = v
			}
		}
	}
	return found
}

// normalizeKey folds "Original Price" and "original-price" to "original_price".
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// toStrings accepts a list or a comma/semicolon separated string.
func toStrings(v any) []string {
	var raw []string
	switch s := v.(type) {
	case nil:
		return nil
	case []any:
		for _, e := range s {
			raw = append(raw, toString(e))
		}
	case string:
		raw = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	default:
		raw = []string{toString(s)}
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		return ParseDate(t)
	default:
		return time.Time{}, false
	}
}
