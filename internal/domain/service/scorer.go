package service

import "github.com/phonerisk/phonerisk/internal/domain/model"

// Scorer defines the scoring strategy used by the Aggregator.
// RiskScorer is the production implementation.
type Scorer interface {
	Score(input ScoringInput) ScoreOutput
	Contribution(factor model.RiskFactor) float64
}

var _ Scorer = (*RiskScorer)(nil)
