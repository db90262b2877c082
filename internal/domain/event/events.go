package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/pkg/events"
)

const (
	// EventTypeAnalysisCompleted is emitted when a fresh phone analysis finishes.
	EventTypeAnalysisCompleted = "phonerisk.analysis.completed"

	// EventTypeHighRiskDetected is emitted when an analysis lands at HIGH or above.
	EventTypeHighRiskDetected = "phonerisk.high_risk.detected"

	// AggregateTypePhoneAnalysis names the aggregate that raises these events.
	AggregateTypePhoneAnalysis = "phone_analysis"
)

// AnalysisCompleted is published for every analysis produced by the pipeline.
// Cached results do not raise it.
type AnalysisCompleted struct {
	events.BaseEvent `json:"-"`
	AnalyzedAt       time.Time         `json:"analyzed_at"`
	StepErrors       map[string]string `json:"step_errors"`
	PhoneNumber      string            `json:"phone_number"`
	RiskLevel        string            `json:"risk_level"`
	FactorTypes      []string          `json:"factor_types"`
	DataSourcesUsed  []string          `json:"data_sources_used"`
	RiskScore        float64           `json:"risk_score"`
	AnalysisID       uuid.UUID         `json:"analysis_id"`
}

// NewAnalysisCompleted builds the event and its JSON payload.
func NewAnalysisCompleted(
	analysisID uuid.UUID,
	phoneNumber string,
	riskScore float64,
	riskLevel string,
	factorTypes []string,
	dataSources []string,
	stepErrors map[string]string,
	analyzedAt time.Time,
) AnalysisCompleted {
	e := AnalysisCompleted{
		AnalysisID:      analysisID,
		PhoneNumber:     phoneNumber,
		RiskScore:       riskScore,
		RiskLevel:       riskLevel,
		FactorTypes:     factorTypes,
		DataSourcesUsed: dataSources,
		StepErrors:      stepErrors,
		AnalyzedAt:      analyzedAt,
	}
	payload, _ := json.Marshal(e)
	e.BaseEvent = events.NewBaseEvent(EventTypeAnalysisCompleted, analysisID, AggregateTypePhoneAnalysis, analyzedAt, payload)
	return e
}

// HighRiskDetected is published when a number scores HIGH, so downstream
// consumers can block or flag it.
type HighRiskDetected struct {
	events.BaseEvent `json:"-"`
	DetectedAt       time.Time `json:"detected_at"`
	PhoneNumber      string    `json:"phone_number"`
	RiskLevel        string    `json:"risk_level"`
	FactorTypes      []string  `json:"factor_types"`
	RiskScore        float64   `json:"risk_score"`
	AnalysisID       uuid.UUID `json:"analysis_id"`
}

// NewHighRiskDetected builds the event and its JSON payload.
func NewHighRiskDetected(
	analysisID uuid.UUID,
	phoneNumber string,
	riskScore float64,
	riskLevel string,
	factorTypes []string,
	detectedAt time.Time,
) HighRiskDetected {
	e := HighRiskDetected{
		AnalysisID:  analysisID,
		PhoneNumber: phoneNumber,
		RiskScore:   riskScore,
		RiskLevel:   riskLevel,
		FactorTypes: factorTypes,
		DetectedAt:  detectedAt,
	}
	payload, _ := json.Marshal(e)
	e.BaseEvent = events.NewBaseEvent(EventTypeHighRiskDetected, analysisID, AggregateTypePhoneAnalysis, detectedAt, payload)
	return e
}
