package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	// PharmacyKeyword marks a store as a pharmacy when found in its category or name.
	PharmacyKeyword = "약국"

	// MaxTopCategories bounds the category ranking.
	MaxTopCategories = 5

	// MaxSampleStores bounds the sample listing.
	MaxSampleStores = 60
)

// Aggregate computes the summary fields for the given stores. Region is left
// for the caller to fill.
func Aggregate(stores []StoreRecord) Summary {
	total := len(stores)

	pharm := 0
	for _, s := range stores {
		if strings.Contains(s.CategoryMid, PharmacyKeyword) || strings.Contains(s.Name, PharmacyKeyword) {
			pharm++
		}
	}

	buckets := groupByCategory(stores)
	// Stable sort keeps first-appearance order among equal counts.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	if len(buckets) > MaxTopCategories {
		buckets = buckets[:MaxTopCategories]
	}

	sample := stores
	if len(sample) > MaxSampleStores {
		sample = sample[:MaxSampleStores]
	}

	return Summary{
		TotalCount:       total,
		PharmacyCount:    pharm,
		TopCategoryShare: topShare(buckets, total),
		TopCategories:    buckets,
		SampleStores:     append(make([]StoreRecord, 0, len(sample)), sample...),
	}
}

// groupByCategory partitions stores by exact CategoryMid, ordered by first appearance.
func groupByCategory(stores []StoreRecord) []CategoryBucket {
	index := make(map[string]int)
	buckets := make([]CategoryBucket, 0)
	for _, s := range stores {
		i, ok := index[s.CategoryMid]
		if !ok {
			i = len(buckets)
			index[s.CategoryMid] = i
			buckets = append(buckets, CategoryBucket{Name: s.CategoryMid})
		}
		buckets[i].Count++
	}
	return buckets
}

func topShare(ranked []CategoryBucket, total int) string {
	if len(ranked) == 0 || total == 0 {
		return "-"
	}
	top := ranked[0]
	// Half rounds away from zero: 5 of 16 is 31.3%, not 31.2%.
	pct := math.Round(float64(top.Count)/float64(total)*1000) / 10
	return fmt.Sprintf("%s %.1f%%", top.Name, pct)
}
