package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Placeholders used when a record carries no usable name or category.
const (
	PlaceholderName     = "(상호명)"
	PlaceholderCategory = "(분류없음)"
)

// Ordered alias lists per canonical field. Earlier entries win.
var (
	nameAliases     = []string{"bizesNm", "bizes_name", "bizesnm"}
	categoryAliases = []string{"indsMclsNm", "inds_mcls_nm", "mcls"}
	addressAliases  = []string{"rdnmAdr", "lnoAdr", "addr"}
)

// NormalizeStore maps a raw registry record onto a StoreRecord. Missing,
// null and non-string fields are tolerated.
func NormalizeStore(raw RawStoreRecord) StoreRecord {
	return StoreRecord{
		Name:        firstNonEmpty(raw, nameAliases, PlaceholderName),
		CategoryMid: firstNonEmpty(raw, categoryAliases, PlaceholderCategory),
		Address:     firstNonEmpty(raw, addressAliases, ""),
	}
}

// NormalizeStores normalizes every record, preserving order.
func NormalizeStores(raws []RawStoreRecord) []StoreRecord {
	out := make([]StoreRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeStore(raw))
	}
	return out
}

func firstNonEmpty(raw RawStoreRecord, aliases []string, fallback string) string {
	for _, key := range aliases {
		if s := strings.TrimSpace(Stringify(raw[key])); s != "" {
			return s
		}
	}
	return fallback
}

// Stringify coerces a decoded JSON value to its textual form. nil becomes "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
