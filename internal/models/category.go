package models

import (
	"encoding/json"
	"strings"
)

// Category is one of the fixed semantic buckets ingested text is sorted into.
type Category string

const (
	CategoryAboutCompany       Category = "about_company"
	CategoryServicesOrProducts Category = "services_or_products"
)

// Categories is the closed category set, in the order rows are written.
var Categories = []Category{CategoryAboutCompany, CategoryServicesOrProducts}

// CategorizedText maps every category of the closed set to its text block.
// Build it with NormalizeCategories so the key set is always complete.
type CategorizedText map[Category]string

// IsEmpty reports whether every category holds only whitespace.
func (ct CategorizedText) IsEmpty() bool {
	for _, c := range Categories {
		if strings.TrimSpace(ct[c]) != "" {
			return false
		}
	}
	return true
}

// NormalizeCategories turns a decoded classifier object into a CategorizedText.
// Missing categories become "", unknown keys are dropped.
func NormalizeCategories(raw map[string]any) CategorizedText {
	out := make(CategorizedText, len(Categories))
	for _, c := range Categories {
		out[c] = stringValue(raw[string(c)])
	}
	return out
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
