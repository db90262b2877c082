package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

func TestNewRiskFactor(t *testing.T) {
	now := time.Now()

	t.Run("snapshots evidence at creation", func(t *testing.T) {
		evidence := map[string]int{"count": 3}
		f, err := model.NewRiskFactor(valueobject.CategorySpamReports, "reported_spam", valueobject.SeverityMedium, 0.25,
			"Number reported 3 times in spam databases", evidence, "Spam Databases", now)
		require.NoError(t, err)

		evidence["count"] = 99
		assert.JSONEq(t, `{"count":3}`, string(f.Evidence))
	})

	t.Run("nil evidence becomes empty object", func(t *testing.T) {
		f, err := model.NewRiskFactor(valueobject.CategoryCompliance, "do_not_call_registry", valueobject.SeverityLow, 0.05,
			"", nil, "Compliance Check", now)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(f.Evidence))
	})

	tests := []struct {
		name       string
		category   valueobject.Category
		factorType string
		severity   valueobject.Severity
		weight     float64
	}{
		{"missing category", valueobject.Category{}, "x", valueobject.SeverityLow, 0.1},
		{"missing type", valueobject.CategoryCarrier, "", valueobject.SeverityLow, 0.1},
		{"missing severity", valueobject.CategoryCarrier, "x", valueobject.Severity{}, 0.1},
		{"negative weight", valueobject.CategoryCarrier, "x", valueobject.SeverityLow, -0.1},
		{"weight above one", valueobject.CategoryCarrier, "x", valueobject.SeverityLow, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewRiskFactor(tt.category, tt.factorType, tt.severity, tt.weight, "", nil, "", now)
			assert.Error(t, err)
		})
	}
}

func TestRiskFactor_WithContribution(t *testing.T) {
	f, err := model.NewRiskFactor(valueobject.CategoryCarrier, "voip_number", valueobject.SeverityMedium, 0.15,
		"", map[string]bool{"is_voip": true}, "Carrier Analysis", time.Now())
	require.NoError(t, err)

	g := f.WithContribution(7.5)

	assert.Zero(t, f.ScoreContribution)
	assert.Equal(t, 7.5, g.ScoreContribution)
	assert.Equal(t, f.FactorType, g.FactorType)
}

func TestOutcome(t *testing.T) {
	ok := model.Available(model.SpamEvidence{TotalReports: 2})
	v, available := ok.Get()
	assert.True(t, available)
	assert.True(t, ok.IsAvailable())
	assert.Equal(t, 2, v.TotalReports)
	assert.Empty(t, ok.Reason())

	missing := model.Unavailable[model.SpamEvidence]("timeout")
	v, available = missing.Get()
	assert.False(t, available)
	assert.Zero(t, v.TotalReports)
	assert.Equal(t, "timeout", missing.Reason())

	assert.Equal(t, "unavailable", model.Unavailable[int]("").Reason())
}

func TestWorkingResult_UseSources(t *testing.T) {
	w := model.NewWorkingResult(valueobject.MustPhoneNumber("+16502530000"), true)

	w.UseSources("phonenumbers_library", "IPQualityScore")
	w.UseSources("IPQualityScore", "", "Numverify")

	assert.Equal(t, []string{"phonenumbers_library", "IPQualityScore", "Numverify"}, w.DataSourcesUsed)
	assert.True(t, w.DeepScan)
	assert.NotNil(t, w.StepErrors)
	assert.NotNil(t, w.RiskFactors)
}
