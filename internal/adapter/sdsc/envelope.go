package sdsc

import (
	"github.com/jihoon0306/onyak-ai-rail/internal/domain"
)

// itemPaths lists where the item list has been observed, in lookup order.
var itemPaths = [][]string{
	{"response", "body", "items"},
	{"body", "items"},
	{"items"},
	{"item"},
}

var resultCodePaths = [][]string{
	{"response", "header", "resultCode"},
	{"header", "resultCode"},
}

// extractItems finds the item list in a decoded registry body. Unrecognized
// shapes yield an empty, non-nil slice.
func extractItems(body any) []domain.RawStoreRecord {
	for _, path := range itemPaths {
		if v := lookup(body, path); v != nil {
			return toRecords(v)
		}
	}
	return []domain.RawStoreRecord{}
}

// toRecords accepts a bare array, or an object wrapping "item" as an array or
// as a single record.
func toRecords(v any) []domain.RawStoreRecord {
	switch t := v.(type) {
	case []any:
		return recordsFrom(t)
	case map[string]any:
		switch inner := t["item"].(type) {
		case []any:
			return recordsFrom(inner)
		case map[string]any:
			return []domain.RawStoreRecord{inner}
		}
	}
	return []domain.RawStoreRecord{}
}

// recordsFrom keeps one record per element; non-object elements become empty
// records so totals still match the upstream count.
func recordsFrom(list []any) []domain.RawStoreRecord {
	out := make([]domain.RawStoreRecord, 0, len(list))
	for _, e := range list {
		rec, _ := e.(map[string]any)
		out = append(out, rec)
	}
	return out
}

func resultCode(body any) string {
	for _, path := range resultCodePaths {
		if v := lookup(body, path); v != nil {
			return domain.Stringify(v)
		}
	}
	return ""
}

func lookup(v any, path []string) any {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}
