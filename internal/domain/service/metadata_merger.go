package service

import (
	"slices"
	"strings"

	"github.com/phonerisk/phonerisk/internal/domain/model"
)

const (
	estimatedAgeVOIP        = "Recent (VOIP numbers are typically newer)"
	estimatedAgePrepaid     = "Variable (Prepaid numbers can be recycled)"
	estimatedAgeEstablished = "Established (Active traditional line)"
	estimatedAgeUnknown     = "Unknown or Inactive"
)

// prepaidMarkets are countries where most mobile lines are prepaid, so a
// "not prepaid" answer from the fraud-score source is not trusted there.
var prepaidMarkets = []string{"IN", "PH", "ID", "BD"}

// MergeRichMetadata combines validity and fraud-score evidence. Either side
// may be nil when its provider was unavailable. The fraud-score source wins
// for carrier and line type; the validity source is the original carrier.
func MergeRichMetadata(validity *model.ValidityEvidence, fraud *model.FraudScoreEvidence, timezones []string) model.RichMetadata {
	var v model.ValidityEvidence
	if validity != nil {
		v = *validity
	}
	f := model.FraudScoreEvidence{Active: true}
	if fraud != nil {
		f = *fraud
	}

	current := firstKnown(f.Carrier, v.Carrier)
	original := firstKnown(v.Carrier)

	carrier := model.CarrierDetails{
		CurrentCarrier:  current,
		OriginalCarrier: original,
		LineType:        firstKnown(f.LineType, v.LineType),
		IsVOIP:          f.VOIP,
		IsPrepaid:       prepaidStatus(f),
	}
	if current != model.UnknownValue && original != model.UnknownValue && current != original {
		carrier.PortingDetected = true
		carrier.PortingHistory = []model.PortingRecord{
			{Carrier: original, Status: "Original"},
			{Carrier: current, Status: "Current"},
		}
	}

	city := f.City
	if city == "" || city == "N/A" {
		city = firstKnown(v.Location)
	}

	tz := model.UnknownValue
	if len(timezones) > 0 {
		tz = timezones[0]
	}
	allTimezones := slices.Clone(timezones)
	if allTimezones == nil {
		allTimezones = []string{}
	}

	return model.RichMetadata{
		CarrierDetails: carrier,
		GeographicData: model.GeographicData{
			Country:           f.Country,
			CountryName:       v.CountryName,
			City:              city,
			Region:            firstKnown(f.Region),
			LocationFormatted: v.Location,
			Timezone:          tz,
			AllTimezones:      allTimezones,
		},
		NumberStatus: model.NumberStatus{
			Active:    f.Active,
			Valid:     v.Valid,
			Risky:     f.Risky,
			DoNotCall: f.DoNotCall,
		},
		Reputation: model.ReputationIndicators{
			FraudScore:   f.FraudScore,
			SpamScore:    f.SpamScore,
			RecentAbuse:  f.RecentAbuse,
			LeakDetected: false,
		},
		EstimatedAge: estimateAge(fraud),
	}
}

// estimateAge classifies the number's age from its activity profile. Without
// fraud-score evidence there is no activity data.
func estimateAge(f *model.FraudScoreEvidence) string {
	if f == nil || !f.Active {
		return estimatedAgeUnknown
	}
	switch {
	case f.VOIP:
		return estimatedAgeVOIP
	case f.Prepaid != nil && *f.Prepaid:
		return estimatedAgePrepaid
	default:
		return estimatedAgeEstablished
	}
}

func prepaidStatus(f model.FraudScoreEvidence) *bool {
	if f.Prepaid == nil {
		return nil
	}
	lineType := strings.ToLower(f.LineType)
	mobile := strings.Contains(lineType, "mobile") || strings.Contains(lineType, "wireless")
	if !*f.Prepaid && mobile && slices.Contains(prepaidMarkets, f.Country) {
		return nil
	}
	prepaid := *f.Prepaid
	return &prepaid
}

func firstKnown(values ...string) string {
	for _, v := range values {
		if v != "" && v != model.UnknownValue {
			return v
		}
	}
	return model.UnknownValue
}
