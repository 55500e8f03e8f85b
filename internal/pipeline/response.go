package pipeline

import (
	"errors"
	"fmt"

	"github.com/jihoon0306/onyak-ai-rail/internal/domain"
)

// ReasonQueryRequired is returned when the place text is missing or blank.
const ReasonQueryRequired = "q_required"

// KPI is the headline block of a lookup payload.
type KPI struct {
	Total    int    `json:"total"`
	Pharm    int    `json:"pharm"`
	TopShare string `json:"topShare"`
}

// DebugInfo describes the registry call behind a live payload.
type DebugInfo struct {
	Sdsc2Status int    `json:"sdsc2Status"`
	UsedURL     string `json:"usedUrl"`
	RawCount    int    `json:"rawCount"`
	Variant     string `json:"variant"`
}

// SummaryBody is the live payload.
type SummaryBody struct {
	Region domain.Coordinate       `json:"region"`
	KPI    KPI                     `json:"kpi"`
	Top    []domain.CategoryBucket `json:"top"`
	Stores []domain.StoreRecord    `json:"stores"`
	Debug  *DebugInfo              `json:"_debug,omitempty"`
}

// FallbackBody is the demo payload served when live data is unavailable.
type FallbackBody struct {
	Region domain.Coordinate       `json:"region"`
	KPI    KPI                     `json:"kpi"`
	Top    []domain.CategoryBucket `json:"top"`
	Stores []domain.DemoStore      `json:"stores"`
	Note   string                  `json:"note"`
	Error  string                  `json:"_error,omitempty"`
}

// ErrorBody is the validation failure payload.
type ErrorBody struct {
	Error string `json:"error"`
}

func summaryBody(s domain.Summary) SummaryBody {
	return SummaryBody{
		Region: s.Region,
		KPI:    KPI{Total: s.TotalCount, Pharm: s.PharmacyCount, TopShare: s.TopCategoryShare},
		Top:    s.TopCategories,
		Stores: s.SampleStores,
	}
}

func fallbackBody(err error, debug bool) FallbackBody {
	s, stores := domain.DemoSummary()
	body := FallbackBody{
		Region: s.Region,
		KPI:    KPI{Total: s.TotalCount, Pharm: s.PharmacyCount, TopShare: s.TopCategoryShare},
		Top:    s.TopCategories,
		Stores: stores,
		Note:   domain.DemoNote,
	}
	if debug {
		body.Error = debugError(err)
	}
	return body
}

// debugError renders err for the _error field. Registry failures carry the
// last status and redacted URL.
func debugError(err error) string {
	var re *domain.RegistryError
	if errors.As(err, &re) {
		return fmt.Sprintf("%s @ %d %s", re.Error(), re.Attempt.Status, re.Attempt.URL)
	}
	return err.Error()
}
