package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// Fixed values for deterministic tests.
var (
	TestPhone     = valueobject.MustPhoneNumber("+16502530000")
	TestPhoneUK   = valueobject.MustPhoneNumber("+442071838750")
	TestTime      = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	UnknownID     = uuid.MustParse("00000000-0000-0000-0000-000000000404")
	TestRequestID = uuid.MustParse("00000000-0000-0000-0000-000000000010")
)

// AnalysisOption tweaks the working result behind NewAnalysis.
type AnalysisOption func(w *model.WorkingResult)

// WithSpamReports records count spam reports and the matching factor.
func WithSpamReports(count int) AnalysisOption {
	return func(w *model.WorkingResult) {
		w.SpamReportsCount = count
		w.SpamDetails = append(w.SpamDetails, model.SpamReport{
			Source:       "IPQualityScore",
			ReportCount:  count,
			Categories:   []string{"Spam"},
			LastReported: "2025-06-01",
		})
		w.UseSources("IPQualityScore")
	}
}

// WithFactor appends a factor built from its parts.
func WithFactor(category, factorType, severity string, weight float64) AnalysisOption {
	return func(w *model.WorkingResult) {
		cat, _ := valueobject.NewCategory(category)
		sev, _ := valueobject.NewSeverity(severity)
		f, err := model.NewRiskFactor(cat, factorType, sev, weight, factorType, nil, "fixture", TestTime)
		if err == nil {
			w.AddFactor(f)
		}
	}
}

// WithStepError annotates a failed step.
func WithStepError(key, reason string) AnalysisOption {
	return func(w *model.WorkingResult) { w.RecordError(key, reason) }
}

// WithDeepScan marks the run as a deep scan.
func WithDeepScan() AnalysisOption {
	return func(w *model.WorkingResult) { w.DeepScan = true }
}

// NewAnalysis builds a finalized analysis of phone scored at score.
func NewAnalysis(t testing.TB, phone valueobject.PhoneNumber, score float64, at time.Time, opts ...AnalysisOption) *model.PhoneAnalysis {
	t.Helper()

	w := model.NewWorkingResult(phone, false)
	w.Identity.CountryCode = "+1"
	w.Identity.Carrier = "AT&T Mobility LLC"
	w.Identity.LineType = "MOBILE"
	w.Identity.Location = "Mountain View, CA"
	w.Identity.Timezones = []string{"America/Los_Angeles"}
	w.UseSources("phonenumbers_library")
	for _, opt := range opts {
		opt(w)
	}

	a, err := model.NewPhoneAnalysis(w, score, valueobject.RiskLevelFromScore(score), at, 1500*time.Millisecond)
	require.NoError(t, err)
	return a
}
