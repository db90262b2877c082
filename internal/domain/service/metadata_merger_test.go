package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/service"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

func TestMergeRichMetadata_VOIPPorting(t *testing.T) {
	validity := &model.ValidityEvidence{
		Valid: true, Carrier: "AT&T", LineType: "mobile",
		CountryName: "United States of America", Location: "Mountain View",
	}
	fraud := &model.FraudScoreEvidence{
		Carrier: "Google Voice", LineType: "VOIP", VOIP: true, Active: true,
		Country: "US", City: "N/A", Region: "CA", FraudScore: 40,
	}

	meta := service.MergeRichMetadata(validity, fraud, []string{"America/Los_Angeles"})

	assert.Equal(t, "Google Voice", meta.CarrierDetails.CurrentCarrier)
	assert.Equal(t, "AT&T", meta.CarrierDetails.OriginalCarrier)
	assert.Equal(t, "VOIP", meta.CarrierDetails.LineType)
	assert.True(t, meta.CarrierDetails.IsVOIP)
	assert.True(t, meta.CarrierDetails.PortingDetected)
	assert.Equal(t, []model.PortingRecord{
		{Carrier: "AT&T", Status: "Original"},
		{Carrier: "Google Voice", Status: "Current"},
	}, meta.CarrierDetails.PortingHistory)
	assert.Equal(t, "Mountain View", meta.GeographicData.City, "N/A city falls back to the validity location")
	assert.Equal(t, "America/Los_Angeles", meta.GeographicData.Timezone)
	assert.Equal(t, "Recent (VOIP numbers are typically newer)", meta.EstimatedAge)
	assert.True(t, meta.NumberStatus.Valid)
	assert.Equal(t, 40, meta.Reputation.FraudScore)

	factors, err := service.CarrierFactors(meta, testNow)
	require.NoError(t, err)
	require.Len(t, factors, 2)
	assert.Equal(t, service.FactorVOIPNumber, factors[0].FactorType)
	assert.True(t, factors[0].Severity.Equal(valueobject.SeverityMedium))
	assert.Equal(t, 0.15, factors[0].Weight)
	assert.Equal(t, service.FactorPortingDetected, factors[1].FactorType)
	assert.True(t, factors[1].Severity.Equal(valueobject.SeverityLow))
	assert.JSONEq(t, `[{"carrier":"AT&T","status":"Original"},{"carrier":"Google Voice","status":"Current"}]`,
		string(factors[1].Evidence))
}

func TestMergeRichMetadata_OneSideMissing(t *testing.T) {
	t.Run("validity only", func(t *testing.T) {
		meta := service.MergeRichMetadata(&model.ValidityEvidence{
			Valid: true, Carrier: "Vodafone", LineType: "mobile", Location: "London",
		}, nil, nil)

		assert.Equal(t, "Vodafone", meta.CarrierDetails.CurrentCarrier)
		assert.False(t, meta.CarrierDetails.PortingDetected)
		assert.Equal(t, "London", meta.GeographicData.City)
		assert.Equal(t, model.UnknownValue, meta.GeographicData.Region)
		assert.Equal(t, model.UnknownValue, meta.GeographicData.Timezone)
		assert.Equal(t, []string{}, meta.GeographicData.AllTimezones)
		assert.Equal(t, "Unknown or Inactive", meta.EstimatedAge)
		assert.True(t, meta.NumberStatus.Active)
	})

	t.Run("fraud score only", func(t *testing.T) {
		meta := service.MergeRichMetadata(nil, &model.FraudScoreEvidence{
			Carrier: "T-Mobile", LineType: "Wireless", Active: true, DoNotCall: true,
		}, nil)

		assert.Equal(t, "T-Mobile", meta.CarrierDetails.CurrentCarrier)
		assert.Equal(t, model.UnknownValue, meta.CarrierDetails.OriginalCarrier)
		assert.False(t, meta.CarrierDetails.PortingDetected, "unknown original carrier is not a port")
		assert.False(t, meta.NumberStatus.Valid)
		assert.Equal(t, "Established (Active traditional line)", meta.EstimatedAge)

		factors, err := service.CarrierFactors(meta, testNow)
		require.NoError(t, err)
		require.Len(t, factors, 1)
		assert.Equal(t, service.FactorDoNotCallRegistry, factors[0].FactorType)
		assert.Equal(t, "compliance", factors[0].Category.String())
	})
}

func TestMergeRichMetadata_Prepaid(t *testing.T) {
	tests := []struct {
		name    string
		country string
		line    string
		prepaid *bool
		want    *bool
	}{
		{"unreported", "US", "mobile", nil, nil},
		{"reported prepaid", "US", "mobile", boolPtr(true), boolPtr(true)},
		{"not prepaid outside prepaid markets", "US", "mobile", boolPtr(false), boolPtr(false)},
		{"not prepaid mobile in prepaid market is untrusted", "IN", "Mobile", boolPtr(false), nil},
		{"not prepaid landline in prepaid market", "IN", "landline", boolPtr(false), boolPtr(false)},
		{"prepaid in prepaid market", "PH", "wireless", boolPtr(true), boolPtr(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := service.MergeRichMetadata(nil, &model.FraudScoreEvidence{
				Country: tt.country, LineType: tt.line, Prepaid: tt.prepaid, Active: true,
			}, nil)
			assert.Equal(t, tt.want, meta.CarrierDetails.IsPrepaid)
		})
	}
}

func TestMergeRichMetadata_EstimatedAge(t *testing.T) {
	assert.Equal(t, "Unknown or Inactive",
		service.MergeRichMetadata(nil, &model.FraudScoreEvidence{Active: false, VOIP: true}, nil).EstimatedAge)
	assert.Equal(t, "Variable (Prepaid numbers can be recycled)",
		service.MergeRichMetadata(nil, &model.FraudScoreEvidence{Active: true, Prepaid: boolPtr(true)}, nil).EstimatedAge)
}
