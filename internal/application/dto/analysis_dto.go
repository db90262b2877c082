package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/internal/domain/model"
)

// Response messages for AnalyzeResponse.
const (
	MessageAnalysisCompleted = "Analysis completed successfully"
	MessageUsingCached       = "Using cached analysis from last 24 hours"
)

// AnalyzeRequest is the input DTO for the AnalyzePhone use case.
type AnalyzeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	DeepScan    bool   `json:"deep_scan"`
}

// AnalyzeResponse wraps the analysis with its cache provenance.
type AnalyzeResponse struct {
	Message  string           `json:"message"`
	Analysis AnalysisResponse `json:"analysis"`
	Cached   bool             `json:"cached"`
}

// AnalysisResponse is the flat result document of one analysis. Collections
// are always present, never null.
type AnalysisResponse struct {
	AnalysisDate       time.Time               `json:"analysis_date"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
	StepErrors         map[string]string       `json:"errors"`
	RichMetadata       *model.RichMetadata     `json:"rich_metadata"`
	SocialPresence     *model.SocialEvidence   `json:"social_media_presence"`
	TelegramPresence   *model.TelegramEvidence `json:"telegram_presence"`
	WhatsAppPresence   *model.WhatsAppEvidence `json:"whatsapp_presence"`
	PhoneNumber        string                  `json:"phone_number"`
	CountryCode        string                  `json:"country_code"`
	Carrier            string                  `json:"carrier"`
	LineType           string                  `json:"line_type"`
	Location           string                  `json:"location"`
	RiskLevel          string                  `json:"risk_level"`
	Timezones          []string                `json:"timezones"`
	SpamDetails        []model.SpamReport      `json:"spam_details"`
	FraudDetails       []model.ForumMention    `json:"fraud_details"`
	RiskFactors        []model.RiskFactor      `json:"risk_factors"`
	DataSourcesUsed    []string                `json:"data_sources_used"`
	RiskScore          float64                 `json:"risk_score"`
	AnalysisDuration   float64                 `json:"analysis_duration"`
	SpamReportsCount   int                     `json:"spam_reports_count"`
	FraudMentionsCount int                     `json:"fraud_mentions_count"`
	DeepScan           bool                    `json:"deep_scan"`
	ID                 uuid.UUID               `json:"id"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(a *model.PhoneAnalysis) AnalysisResponse {
	identity := a.Identity()
	return AnalysisResponse{
		ID:                 a.ID(),
		PhoneNumber:        identity.Number.String(),
		CountryCode:        identity.CountryCode,
		Carrier:            identity.Carrier,
		LineType:           identity.LineType,
		Location:           identity.Location,
		Timezones:          identity.Timezones,
		RichMetadata:       a.RichMetadata(),
		SocialPresence:     a.SocialPresence(),
		SpamReportsCount:   a.SpamReportsCount(),
		SpamDetails:        a.SpamDetails(),
		FraudMentionsCount: a.FraudMentionsCount(),
		FraudDetails:       a.FraudDetails(),
		TelegramPresence:   a.TelegramPresence(),
		WhatsAppPresence:   a.WhatsAppPresence(),
		RiskScore:          a.RiskScore(),
		RiskLevel:          a.RiskLevel().String(),
		RiskFactors:        a.RiskFactors(),
		DataSourcesUsed:    a.DataSourcesUsed(),
		StepErrors:         a.StepErrors(),
		DeepScan:           a.DeepScan(),
		AnalysisDate:       a.AnalyzedAt(),
		AnalysisDuration:   a.Duration().Seconds(),
		CreatedAt:          a.CreatedAt(),
		UpdatedAt:          a.UpdatedAt(),
	}
}

// FromModels maps a page of analyses.
func FromModels(analyses []*model.PhoneAnalysis) []AnalysisResponse {
	out := make([]AnalysisResponse, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, FromModel(a))
	}
	return out
}
