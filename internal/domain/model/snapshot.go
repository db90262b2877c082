package model

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// AnalysisSnapshot is the flat, serializable form of a PhoneAnalysis used by
// the storage adapters.
type AnalysisSnapshot struct {
	AnalyzedAt         time.Time             `json:"analyzed_at"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	StepErrors         map[string]string     `json:"step_errors"`
	RichMetadata       *RichMetadata         `json:"rich_metadata,omitempty"`
	SocialPresence     *SocialEvidence       `json:"social_media_presence,omitempty"`
	TelegramPresence   *TelegramEvidence     `json:"telegram_presence,omitempty"`
	WhatsAppPresence   *WhatsAppEvidence     `json:"whatsapp_presence,omitempty"`
	RiskLevel          valueobject.RiskLevel `json:"risk_level"`
	Identity           PhoneIdentity         `json:"identity"`
	SpamDetails        []SpamReport          `json:"spam_details"`
	FraudDetails       []ForumMention        `json:"fraud_details"`
	RiskFactors        []RiskFactor          `json:"risk_factors"`
	DataSourcesUsed    []string              `json:"data_sources_used"`
	RiskScore          float64               `json:"risk_score"`
	DurationSeconds    float64               `json:"analysis_duration"`
	SpamReportsCount   int                   `json:"spam_reports_count"`
	FraudMentionsCount int                   `json:"fraud_mentions_count"`
	DeepScan           bool                  `json:"deep_scan"`
	ID                 uuid.UUID             `json:"id"`
}

// Snapshot captures the analysis for persistence.
func (a *PhoneAnalysis) Snapshot() AnalysisSnapshot {
	return AnalysisSnapshot{
		ID:                 a.id,
		Identity:           a.Identity(),
		RichMetadata:       a.richMetadata,
		SocialPresence:     a.socialPresence,
		SpamReportsCount:   a.spamReportsCount,
		SpamDetails:        a.SpamDetails(),
		FraudMentionsCount: a.fraudMentionsCount,
		FraudDetails:       a.FraudDetails(),
		TelegramPresence:   a.telegramPresence,
		WhatsAppPresence:   a.whatsAppPresence,
		RiskFactors:        a.RiskFactors(),
		RiskScore:          a.riskScore,
		RiskLevel:          a.riskLevel,
		DataSourcesUsed:    a.DataSourcesUsed(),
		StepErrors:         a.StepErrors(),
		DeepScan:           a.deepScan,
		AnalyzedAt:         a.analyzedAt,
		DurationSeconds:    a.duration.Seconds(),
		CreatedAt:          a.createdAt,
		UpdatedAt:          a.updatedAt,
	}
}

// ReconstructPhoneAnalysis rebuilds an analysis from persisted data (no
// validation, no events).
func ReconstructPhoneAnalysis(s AnalysisSnapshot) *PhoneAnalysis {
	return &PhoneAnalysis{
		id:                 s.ID,
		identity:           cloneIdentity(s.Identity),
		richMetadata:       s.RichMetadata,
		socialPresence:     s.SocialPresence,
		spamReportsCount:   s.SpamReportsCount,
		spamDetails:        nonNil(slices.Clone(s.SpamDetails)),
		fraudMentionsCount: s.FraudMentionsCount,
		fraudDetails:       nonNil(slices.Clone(s.FraudDetails)),
		telegramPresence:   s.TelegramPresence,
		whatsAppPresence:   s.WhatsAppPresence,
		riskFactors:        nonNil(slices.Clone(s.RiskFactors)),
		riskScore:          s.RiskScore,
		riskLevel:          s.RiskLevel,
		dataSourcesUsed:    nonNil(slices.Clone(s.DataSourcesUsed)),
		stepErrors:         cloneErrors(s.StepErrors),
		deepScan:           s.DeepScan,
		analyzedAt:         s.AnalyzedAt,
		duration:           time.Duration(s.DurationSeconds * float64(time.Second)),
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
	}
}
