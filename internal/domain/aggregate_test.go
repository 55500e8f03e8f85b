package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(cats ...string) []StoreRecord {
	out := make([]StoreRecord, len(cats))
	for i, c := range cats {
		out[i] = StoreRecord{Name: fmt.Sprintf("store-%d", i), CategoryMid: c}
	}
	return out
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil)

	assert.Equal(t, 0, got.TotalCount)
	assert.Equal(t, 0, got.PharmacyCount)
	assert.Equal(t, "-", got.TopCategoryShare)
	assert.Empty(t, got.TopCategories)
	assert.Empty(t, got.SampleStores)
}

func TestAggregate_Counts(t *testing.T) {
	in := []StoreRecord{
		{Name: "온누리약국", CategoryMid: "의약·의료"},
		{Name: "OO커피", CategoryMid: "커피점/카페"},
		{Name: "드럭스토어", CategoryMid: "약국"},
		{Name: "OO커피 2호점", CategoryMid: "커피점/카페"},
	}

	got := Aggregate(in)

	assert.Equal(t, 4, got.TotalCount)
	assert.Equal(t, 2, got.PharmacyCount)
	assert.LessOrEqual(t, got.PharmacyCount, got.TotalCount)
	require.NotEmpty(t, got.TopCategories)
	assert.Equal(t, CategoryBucket{Name: "커피점/카페", Count: 2}, got.TopCategories[0])
	assert.Equal(t, "커피점/카페 50.0%", got.TopCategoryShare)
}

func TestAggregate_TiesKeepFirstAppearance(t *testing.T) {
	got := Aggregate(stores("b", "a", "c", "a", "b", "d"))

	assert.Equal(t, []CategoryBucket{
		{Name: "b", Count: 2},
		{Name: "a", Count: 2},
		{Name: "c", Count: 1},
		{Name: "d", Count: 1},
	}, got.TopCategories)
}

func TestAggregate_TopCategoriesTruncatedAndSorted(t *testing.T) {
	got := Aggregate(stores("a", "b", "c", "d", "e", "f", "g", "g", "f", "g"))

	require.Len(t, got.TopCategories, MaxTopCategories)
	assert.Equal(t, "g", got.TopCategories[0].Name)
	assert.Equal(t, "f", got.TopCategories[1].Name)
	assert.Equal(t, []string{"a", "b", "c"}, []string{
		got.TopCategories[2].Name, got.TopCategories[3].Name, got.TopCategories[4].Name,
	})
	for i := 1; i < len(got.TopCategories); i++ {
		assert.GreaterOrEqual(t, got.TopCategories[i-1].Count, got.TopCategories[i].Count)
	}
	assert.Equal(t, "g 30.0%", got.TopCategoryShare)
}

func TestAggregate_ShareRoundsToOneDecimal(t *testing.T) {
	got := Aggregate(stores("a", "b", "c"))

	assert.Equal(t, "a 33.3%", got.TopCategoryShare)
}

func TestAggregate_ShareRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name string
		top  int
		rest int
		want string
	}{
		{"5 of 16", 5, 11, "a 31.3%"},
		{"9 of 16", 9, 7, "a 56.3%"},
		{"5 of 80", 5, 75, "a 6.3%"},
		{"1 of 16, all tied", 1, 15, "a 6.3%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats := make([]string, 0, tt.top+tt.rest)
			for range tt.top {
				cats = append(cats, "a")
			}
			for i := range tt.rest {
				cats = append(cats, fmt.Sprintf("z%02d", i))
			}
			got := Aggregate(stores(cats...))

			assert.Equal(t, tt.want, got.TopCategoryShare)
		})
	}
}

func TestAggregate_SampleIsOrderedPrefix(t *testing.T) {
	for _, n := range []int{0, 1, 59, 60, 61, 250} {
		cats := make([]string, n)
		for i := range cats {
			cats[i] = fmt.Sprintf("c%d", i%7)
		}
		in := stores(cats...)

		got := Aggregate(in)

		assert.Equal(t, n, got.TotalCount)
		require.Len(t, got.SampleStores, min(MaxSampleStores, n))
		assert.Equal(t, in[:len(got.SampleStores)], got.SampleStores)
	}
}

func TestAggregate_PharmacyKeywordIsSubstring(t *testing.T) {
	in := []StoreRecord{
		{Name: "행복약국", CategoryMid: PlaceholderCategory},
		{Name: PlaceholderName, CategoryMid: "한약국"},
		{Name: "약 국", CategoryMid: "기타"},
	}

	got := Aggregate(in)

	assert.Equal(t, 2, got.PharmacyCount)
}
