package domain

import "time"

// Coordinate is a resolved place: display name plus WGS-84 position.
type Coordinate struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// RawStoreRecord is one registry item as decoded from JSON. Its shape varies
// by provider and version.
type RawStoreRecord map[string]any

// StoreRecord is the canonical store shape after normalization.
type StoreRecord struct {
	Name        string `json:"name"`
	CategoryMid string `json:"cateMid"`
	Address     string `json:"addr"`
}

// CategoryBucket counts stores sharing one middle category.
type CategoryBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the aggregated view of the stores around a coordinate.
type Summary struct {
	Region           Coordinate
	TotalCount       int
	PharmacyCount    int
	TopCategoryShare string
	TopCategories    []CategoryBucket
	SampleStores     []StoreRecord
}

// LookupEvent records the outcome of one completed lookup for downstream
// consumers. It never carries credentials or upstream URLs.
type LookupEvent struct {
	ID       string     `json:"id"`
	Query    string     `json:"query"`
	Radius   int        `json:"radius"`
	Region   Coordinate `json:"region"`
	Total    int        `json:"total"`
	Pharm    int        `json:"pharm"`
	TopShare string     `json:"topShare"`
	Fallback bool       `json:"fallback"`
	Reason   string     `json:"reason,omitempty"`
	At       time.Time  `json:"at"`
}
