package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// RiskFactor is one attributable piece of evidence. Factors are values:
// the evidence is snapshotted to JSON at creation and nothing mutates a
// factor once it has been appended to a result.
type RiskFactor struct {
	DetectedAt        time.Time            `json:"detected_at"`
	Category          valueobject.Category `json:"category"`
	Severity          valueobject.Severity `json:"severity"`
	FactorType        string               `json:"factor_type"`
	Description       string               `json:"description"`
	Source            string               `json:"source"`
	Evidence          json.RawMessage      `json:"evidence"`
	Weight            float64              `json:"weight"`
	ScoreContribution float64              `json:"score_contribution"`
}

// NewRiskFactor validates and builds a factor. evidence is serialized
// immediately so later changes to the caller's value cannot leak in.
func NewRiskFactor(
	category valueobject.Category,
	factorType string,
	severity valueobject.Severity,
	weight float64,
	description string,
	evidence any,
	source string,
	detectedAt time.Time,
) (RiskFactor, error) {
	if category.String() == "" {
		return RiskFactor{}, fmt.Errorf("risk factor category is required")
	}
	if factorType == "" {
		return RiskFactor{}, fmt.Errorf("risk factor type is required")
	}
	if severity.IsZero() {
		return RiskFactor{}, fmt.Errorf("risk factor severity is required")
	}
	if weight < 0 || weight > 1 {
		return RiskFactor{}, fmt.Errorf("risk factor weight must be between 0 and 1, got %v", weight)
	}

	raw := json.RawMessage("{}")
	if evidence != nil {
		b, err := json.Marshal(evidence)
		if err != nil {
			return RiskFactor{}, fmt.Errorf("failed to snapshot evidence for %s: %w", factorType, err)
		}
		raw = b
	}

	return RiskFactor{
		Category:    category,
		FactorType:  factorType,
		Severity:    severity,
		Weight:      weight,
		Description: description,
		Evidence:    raw,
		Source:      source,
		DetectedAt:  detectedAt.UTC(),
	}, nil
}

// WithContribution returns a copy of the factor carrying its attribution score.
func (f RiskFactor) WithContribution(contribution float64) RiskFactor {
	f.ScoreContribution = contribution
	f.Evidence = append(json.RawMessage(nil), f.Evidence...)
	return f
}
