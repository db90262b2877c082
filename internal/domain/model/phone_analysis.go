package model

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/internal/domain/event"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
	"github.com/phonerisk/phonerisk/pkg/events"
)

// PhoneAnalysis is the aggregate root for a completed phone risk analysis.
// It is immutable once built.
type PhoneAnalysis struct {
	events.EventCollector

	analyzedAt         time.Time
	createdAt          time.Time
	updatedAt          time.Time
	stepErrors         map[string]string
	richMetadata       *RichMetadata
	socialPresence     *SocialEvidence
	telegramPresence   *TelegramEvidence
	whatsAppPresence   *WhatsAppEvidence
	riskLevel          valueobject.RiskLevel
	identity           PhoneIdentity
	spamDetails        []SpamReport
	fraudDetails       []ForumMention
	riskFactors        []RiskFactor
	dataSourcesUsed    []string
	riskScore          float64
	duration           time.Duration
	spamReportsCount   int
	fraudMentionsCount int
	deepScan           bool
	id                 uuid.UUID
}

// NewPhoneAnalysis finalizes a working result into an analysis record and
// raises the completion events. This is the only fallible step of a run.
func NewPhoneAnalysis(
	w *WorkingResult,
	riskScore float64,
	riskLevel valueobject.RiskLevel,
	analyzedAt time.Time,
	duration time.Duration,
) (*PhoneAnalysis, error) {
	if w == nil {
		return nil, fmt.Errorf("working result is required")
	}
	if w.Identity.Number.IsZero() {
		return nil, fmt.Errorf("phone number is required")
	}
	if riskScore < 0 || riskScore > 100 {
		return nil, fmt.Errorf("risk score must be between 0 and 100, got %v", riskScore)
	}
	if riskLevel.IsZero() {
		return nil, fmt.Errorf("risk level is required")
	}

	analyzedAt = analyzedAt.UTC()
	a := &PhoneAnalysis{
		id:                 uuid.New(),
		identity:           cloneIdentity(w.Identity),
		richMetadata:       w.RichMetadata,
		socialPresence:     w.SocialPresence,
		spamReportsCount:   w.SpamReportsCount,
		spamDetails:        nonNil(slices.Clone(w.SpamDetails)),
		fraudMentionsCount: w.FraudMentionsCount,
		fraudDetails:       nonNil(slices.Clone(w.FraudDetails)),
		telegramPresence:   w.TelegramPresence,
		whatsAppPresence:   w.WhatsAppPresence,
		riskFactors:        nonNil(slices.Clone(w.RiskFactors)),
		riskScore:          riskScore,
		riskLevel:          riskLevel,
		dataSourcesUsed:    nonNil(slices.Clone(w.DataSourcesUsed)),
		stepErrors:         cloneErrors(w.StepErrors),
		deepScan:           w.DeepScan,
		analyzedAt:         analyzedAt,
		duration:           duration,
		createdAt:          analyzedAt,
		updatedAt:          analyzedAt,
	}

	a.Record(event.NewAnalysisCompleted(
		a.id, a.identity.Number.String(), a.riskScore, a.riskLevel.String(),
		a.FactorTypes(), a.DataSourcesUsed(), a.StepErrors(), a.analyzedAt,
	))

	if a.riskLevel.AtLeast(valueobject.RiskLevelHigh) {
		a.Record(event.NewHighRiskDetected(
			a.id, a.identity.Number.String(), a.riskScore, a.riskLevel.String(),
			a.FactorTypes(), a.analyzedAt,
		))
	}

	return a, nil
}

// --- Accessors ---

func (a *PhoneAnalysis) ID() uuid.UUID                        { return a.id }
func (a *PhoneAnalysis) PhoneNumber() valueobject.PhoneNumber { return a.identity.Number }
func (a *PhoneAnalysis) Identity() PhoneIdentity              { return cloneIdentity(a.identity) }
func (a *PhoneAnalysis) RichMetadata() *RichMetadata          { return a.richMetadata }
func (a *PhoneAnalysis) SocialPresence() *SocialEvidence      { return a.socialPresence }
func (a *PhoneAnalysis) SpamReportsCount() int                { return a.spamReportsCount }
func (a *PhoneAnalysis) SpamDetails() []SpamReport            { return slices.Clone(a.spamDetails) }
func (a *PhoneAnalysis) FraudMentionsCount() int              { return a.fraudMentionsCount }
func (a *PhoneAnalysis) FraudDetails() []ForumMention         { return slices.Clone(a.fraudDetails) }
func (a *PhoneAnalysis) TelegramPresence() *TelegramEvidence  { return a.telegramPresence }
func (a *PhoneAnalysis) WhatsAppPresence() *WhatsAppEvidence  { return a.whatsAppPresence }
func (a *PhoneAnalysis) RiskFactors() []RiskFactor            { return slices.Clone(a.riskFactors) }
func (a *PhoneAnalysis) RiskScore() float64                   { return a.riskScore }
func (a *PhoneAnalysis) RiskLevel() valueobject.RiskLevel     { return a.riskLevel }
func (a *PhoneAnalysis) DataSourcesUsed() []string            { return slices.Clone(a.dataSourcesUsed) }
func (a *PhoneAnalysis) StepErrors() map[string]string        { return maps.Clone(a.stepErrors) }
func (a *PhoneAnalysis) DeepScan() bool                       { return a.deepScan }
func (a *PhoneAnalysis) AnalyzedAt() time.Time                { return a.analyzedAt }
func (a *PhoneAnalysis) Duration() time.Duration              { return a.duration }
func (a *PhoneAnalysis) CreatedAt() time.Time                 { return a.createdAt }
func (a *PhoneAnalysis) UpdatedAt() time.Time                 { return a.updatedAt }

// FactorTypes lists the factor types in the order they were detected.
func (a *PhoneAnalysis) FactorTypes() []string {
	types := make([]string, 0, len(a.riskFactors))
	for _, f := range a.riskFactors {
		types = append(types, f.FactorType)
	}
	return types
}

// IsFresh reports whether the analysis is younger than window at now.
func (a *PhoneAnalysis) IsFresh(now time.Time, window time.Duration) bool {
	return !a.analyzedAt.Before(now.Add(-window))
}

// DomainEvents returns all accumulated domain events and clears them.
func (a *PhoneAnalysis) DomainEvents() []events.DomainEvent {
	return a.Drain()
}

func cloneIdentity(p PhoneIdentity) PhoneIdentity {
	p.Timezones = nonNil(slices.Clone(p.Timezones))
	return p
}

func cloneErrors(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
