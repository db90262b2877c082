package model

import (
	"slices"

	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// Step error annotation keys.
const (
	StepErrorBasicInfo     = "basic_info_error"
	StepErrorRichMetadata  = "rich_metadata_error"
	StepErrorSocialMedia   = "social_media_error"
	StepErrorSpamCheck     = "spam_check_error"
	StepErrorFraudScan     = "fraud_scan_error"
	StepErrorMessagingApps = "messaging_apps_error"
)

// WorkingResult is the in-progress record of one aggregation run. It is
// owned by a single run and turned into an immutable PhoneAnalysis by
// NewPhoneAnalysis.
type WorkingResult struct {
	StepErrors         map[string]string
	RichMetadata       *RichMetadata
	SocialPresence     *SocialEvidence
	TelegramPresence   *TelegramEvidence
	WhatsAppPresence   *WhatsAppEvidence
	Identity           PhoneIdentity
	SpamDetails        []SpamReport
	FraudDetails       []ForumMention
	RiskFactors        []RiskFactor
	DataSourcesUsed    []string
	SpamReportsCount   int
	FraudMentionsCount int
	DeepScan           bool
}

// NewWorkingResult starts a run for phone. Collections start empty, not nil.
func NewWorkingResult(phone valueobject.PhoneNumber, deepScan bool) *WorkingResult {
	return &WorkingResult{
		Identity: PhoneIdentity{
			Number:    phone,
			Timezones: []string{},
		},
		SpamDetails:     []SpamReport{},
		FraudDetails:    []ForumMention{},
		RiskFactors:     []RiskFactor{},
		DataSourcesUsed: []string{},
		StepErrors:      map[string]string{},
		DeepScan:        deepScan,
	}
}

// AddFactor appends a risk factor.
func (w *WorkingResult) AddFactor(f RiskFactor) {
	w.RiskFactors = append(w.RiskFactors, f)
}

// UseSources records data sources that contributed evidence. Duplicates are
// ignored and first-seen order is kept.
func (w *WorkingResult) UseSources(names ...string) {
	for _, name := range names {
		if name == "" || slices.Contains(w.DataSourcesUsed, name) {
			continue
		}
		w.DataSourcesUsed = append(w.DataSourcesUsed, name)
	}
}

// RecordError annotates a failed step.
func (w *WorkingResult) RecordError(key, reason string) {
	w.StepErrors[key] = reason
}
