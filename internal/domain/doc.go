// Package domain models the trade-area summary built from the small business
// store registry (상가업소 정보, data.go.kr sdsc2 service).
//
// # Data Source
//
// Store listings come from the sdsc2 "storeListInRadius" operation, which
// returns every registered business within a radius of a WGS-84 point. The
// point itself is resolved from free text by a Nominatim-compatible geocoder.
//
// # Registry Conventions
//
// Coordinates:
//
//	The registry names longitude "cx" and latitude "cy". Nominatim returns
//	"lat"/"lon" as decimal strings. The two must never be transposed.
//
// Field names:
//
//	Record keys drift between registry versions and mirrors:
//	  business name:   bizesNm, bizes_name, bizesnm
//	  middle category: indsMclsNm, inds_mcls_nm, mcls
//	  address:         rdnmAdr (road name), lnoAdr (lot number), addr
//	The first non-empty alias wins. See [NormalizeStore].
//
// Envelopes:
//
//	The item list has been observed under response.body.items, body.items,
//	items and item, either as an array or as an object wrapping "item".
//	An empty result is frequently an empty string instead of an array.
//
// Result codes:
//
//	data.go.kr services embed header.resultCode in the body. "00" is success;
//	other codes (e.g. "30" unregistered key, "22" quota exceeded) arrive with
//	HTTP 200 and must be treated as failures.
//
// # Summary
//
// The summary counts all stores, counts pharmacies (약국) by category or name,
// ranks middle categories by size, and keeps the first 60 stores for display.
// When live data cannot be produced a fixed demo summary is served instead,
// see [DemoSummary].
package domain
