package service

import (
	"fmt"
	"time"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// Factor types produced by the translation rules.
const (
	FactorVOIPNumber                 = "voip_number"
	FactorPortingDetected            = "porting_detected"
	FactorDoNotCallRegistry          = "do_not_call_registry"
	FactorSuspiciousSocialActivity   = "suspicious_activity"
	FactorReportedSpam               = "reported_spam"
	FactorFraudMention               = "fraud_mention"
	FactorSuspiciousTelegramActivity = "suspicious_telegram_activity"
)

// highSpamReportCount is the report count above which spam becomes HIGH severity.
const highSpamReportCount = 10

// CarrierFactors translates rich metadata into carrier and compliance factors.
func CarrierFactors(meta model.RichMetadata, at time.Time) ([]model.RiskFactor, error) {
	var factors []model.RiskFactor

	if meta.CarrierDetails.IsVOIP {
		f, err := model.NewRiskFactor(
			valueobject.CategoryCarrier, FactorVOIPNumber, valueobject.SeverityMedium, 0.15,
			"VOIP numbers are commonly used in fraud schemes",
			map[string]bool{"is_voip": true}, "Carrier Analysis", at,
		)
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}

	if meta.CarrierDetails.PortingDetected {
		f, err := model.NewRiskFactor(
			valueobject.CategoryCarrier, FactorPortingDetected, valueobject.SeverityLow, 0.10,
			"Number has been ported between carriers",
			meta.CarrierDetails.PortingHistory, "Carrier Analysis", at,
		)
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}

	if meta.NumberStatus.DoNotCall {
		f, err := model.NewRiskFactor(
			valueobject.CategoryCompliance, FactorDoNotCallRegistry, valueobject.SeverityLow, 0.05,
			"Number is on Do Not Call registry",
			map[string]bool{"do_not_call": true}, "Compliance Check", at,
		)
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}

	return factors, nil
}

// SocialFactors yields a factor only when the scan flagged an anomaly.
func SocialFactors(ev model.SocialEvidence, at time.Time) ([]model.RiskFactor, error) {
	if !ev.AnomalyDetected {
		return nil, nil
	}
	f, err := model.NewRiskFactor(
		valueobject.CategorySocialMedia, FactorSuspiciousSocialActivity,
		valueobject.SeverityOrDefault(ev.Severity, valueobject.SeverityMedium), 0.30,
		ev.AnomalyDescription, ev, "Social Media Scan", at,
	)
	if err != nil {
		return nil, err
	}
	return []model.RiskFactor{f}, nil
}

// SpamFactors yields a factor when any spam report exists.
func SpamFactors(ev model.SpamEvidence, at time.Time) ([]model.RiskFactor, error) {
	if ev.TotalReports <= 0 {
		return nil, nil
	}
	severity := valueobject.SeverityMedium
	if ev.TotalReports > highSpamReportCount {
		severity = valueobject.SeverityHigh
	}
	f, err := model.NewRiskFactor(
		valueobject.CategorySpamReports, FactorReportedSpam, severity, 0.25,
		fmt.Sprintf("Number reported %d times in spam databases", ev.TotalReports),
		ev, "Spam Databases", at,
	)
	if err != nil {
		return nil, err
	}
	return []model.RiskFactor{f}, nil
}

// ForumFactors yields a HIGH factor when the number is mentioned at all.
func ForumFactors(ev model.ForumEvidence, at time.Time) ([]model.RiskFactor, error) {
	if ev.MentionsCount <= 0 {
		return nil, nil
	}
	f, err := model.NewRiskFactor(
		valueobject.CategoryFraudForum, FactorFraudMention, valueobject.SeverityHigh, 0.25,
		fmt.Sprintf("Number mentioned in %d fraud-related discussions", ev.MentionsCount),
		ev, "Fraud Forums", at,
	)
	if err != nil {
		return nil, err
	}
	return []model.RiskFactor{f}, nil
}

// TelegramFactors yields a factor when the number sits in suspicious groups.
func TelegramFactors(ev model.TelegramEvidence, at time.Time) ([]model.RiskFactor, error) {
	if len(ev.SuspiciousGroups) == 0 {
		return nil, nil
	}
	f, err := model.NewRiskFactor(
		valueobject.CategoryMessagingApps, FactorSuspiciousTelegramActivity, valueobject.SeverityMedium, 0.10,
		fmt.Sprintf("Found in %d suspicious Telegram groups", len(ev.SuspiciousGroups)),
		ev, "Telegram", at,
	)
	if err != nil {
		return nil, err
	}
	return []model.RiskFactor{f}, nil
}
