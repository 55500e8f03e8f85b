package domain

// DemoStore is the store shape used by the demo payload. It keys the
// category as "cate", unlike the live StoreRecord which uses "cateMid";
// consumers already depend on both shapes.
type DemoStore struct {
	Name     string `json:"name"`
	Category string `json:"cate"`
	Address  string `json:"addr"`
}

// DemoNote is attached to every fallback payload.
const DemoNote = "DEMO fallback (키/호출 점검 필요)"

// DemoSummary returns the fixed summary served when live data is unavailable.
// A fresh copy is returned on every call.
func DemoSummary() (Summary, []DemoStore) {
	return Summary{
			Region:           Coordinate{Name: "상권(데모)", Lat: 37.5, Lng: 127.0},
			TotalCount:       820,
			PharmacyCount:    18,
			TopCategoryShare: "카페·디저트 14.6%",
			TopCategories: []CategoryBucket{
				{Name: "카페·디저트", Count: 120},
				{Name: "한식", Count: 98},
				{Name: "양식", Count: 64},
				{Name: "학원", Count: 58},
				{Name: "미용실", Count: 47},
			},
		}, []DemoStore{
			{Name: "온약약국", Category: "약국", Address: "서울 강남구 테헤란로 xxx"},
			{Name: "OO커피", Category: "카페·디저트", Address: "서울 강남구 역삼로 xxx"},
			{Name: "OO학원", Category: "학원", Address: "서울 강남구 논현로 xxx"},
		}
}
