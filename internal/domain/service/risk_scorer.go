package service

import (
	"github.com/shopspring/decimal"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

const (
	// recentAccountDays is the age below which a social account counts as recent.
	recentAccountDays = 30

	// undisclosedAccountAge is assumed when a platform hides the account age
	// while counting recent accounts.
	undisclosedAccountAge = 999
)

// Weights are the fixed category weights of the composite score. They sum to 1.
type Weights struct {
	SocialMedia float64 `json:"social_media"`
	SpamReports float64 `json:"spam_reports"`
	FraudForums float64 `json:"fraud_forums"`
	AccountAge  float64 `json:"account_age"`
	Geographic  float64 `json:"geographic"`
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		SocialMedia: 0.30,
		SpamReports: 0.25,
		FraudForums: 0.25,
		AccountAge:  0.10,
		Geographic:  0.10,
	}
}

// ScoringInput is the category-level evidence the scorer reads.
type ScoringInput struct {
	Social        *model.SocialEvidence
	Location      string
	SpamReports   int
	FraudMentions int
}

// ScoringInputFromWorking extracts scoring input from an in-progress run.
func ScoringInputFromWorking(w *model.WorkingResult) ScoringInput {
	return ScoringInput{
		Social:        w.SocialPresence,
		SpamReports:   w.SpamReportsCount,
		FraudMentions: w.FraudMentionsCount,
		Location:      w.Identity.Location,
	}
}

// ScoringInputFromAnalysis extracts scoring input from a stored analysis.
func ScoringInputFromAnalysis(a *model.PhoneAnalysis) ScoringInput {
	return ScoringInput{
		Social:        a.SocialPresence(),
		SpamReports:   a.SpamReportsCount(),
		FraudMentions: a.FraudMentionsCount(),
		Location:      a.Identity().Location,
	}
}

// CategoryScores holds the 0-100 sub-score of each category.
type CategoryScores struct {
	SocialMedia float64 `json:"social_media"`
	SpamReports float64 `json:"spam_reports"`
	FraudForums float64 `json:"fraud_forums"`
	AccountAge  float64 `json:"account_age"`
	Geographic  float64 `json:"geographic"`
}

// ScoreOutput contains the result of risk scoring.
type ScoreOutput struct {
	Level      valueobject.RiskLevel
	Categories CategoryScores
	Score      float64
}

// FactorContribution attributes part of the risk to one factor.
type FactorContribution struct {
	Factor       string  `json:"factor"`
	Contribution float64 `json:"contribution"`
}

// ScoreBreakdown explains a score for diagnostics and reporting.
type ScoreBreakdown struct {
	RiskLevel           string               `json:"risk_level"`
	FactorContributions []FactorContribution `json:"factor_contributions"`
	CategoryScores      CategoryScores       `json:"category_scores"`
	Weights             Weights              `json:"weights"`
	TotalScore          float64              `json:"total_score"`
}

// RiskScorer is a domain service that folds category evidence into a
// weighted composite score. It never fails: missing evidence falls through
// to the no-signal branch of each sub-scorer.
type RiskScorer struct {
	weights Weights
}

// NewRiskScorer creates a RiskScorer with the default weights.
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{weights: DefaultWeights()}
}

// Weights returns the category weights in use.
func (s *RiskScorer) Weights() Weights {
	return s.weights
}

// Score computes the composite score, rounded to 2 decimals, and its level.
func (s *RiskScorer) Score(in ScoringInput) ScoreOutput {
	cats := CategoryScores{
		SocialMedia: socialMediaScore(in.Social),
		SpamReports: spamScore(in.SpamReports),
		FraudForums: fraudForumScore(in.FraudMentions),
		AccountAge:  accountAgeScore(in.Social),
		Geographic:  geographicScore(in.Location),
	}

	total := weighted(cats.SocialMedia, s.weights.SocialMedia).
		Add(weighted(cats.SpamReports, s.weights.SpamReports)).
		Add(weighted(cats.FraudForums, s.weights.FraudForums)).
		Add(weighted(cats.AccountAge, s.weights.AccountAge)).
		Add(weighted(cats.Geographic, s.weights.Geographic))

	score := clamp(total).Round(2).InexactFloat64()

	return ScoreOutput{
		Score:      score,
		Level:      valueobject.RiskLevelFromScore(score),
		Categories: cats,
	}
}

// Contribution is the attribution score of a single factor: the severity
// base times the factor weight, rounded to 2 decimals. It does not feed the
// composite score.
func (s *RiskScorer) Contribution(f model.RiskFactor) float64 {
	return decimal.NewFromFloat(f.Severity.BaseScore()).
		Mul(decimal.NewFromFloat(f.Weight)).
		Round(2).
		InexactFloat64()
}

// Breakdown recomputes the score of a stored analysis with full attribution.
func (s *RiskScorer) Breakdown(a *model.PhoneAnalysis) ScoreBreakdown {
	out := s.Score(ScoringInputFromAnalysis(a))

	factors := a.RiskFactors()
	contributions := make([]FactorContribution, 0, len(factors))
	for _, f := range factors {
		contributions = append(contributions, FactorContribution{
			Factor:       f.FactorType,
			Contribution: s.Contribution(f),
		})
	}

	return ScoreBreakdown{
		TotalScore:          out.Score,
		RiskLevel:           out.Level.String(),
		CategoryScores:      out.Categories,
		Weights:             s.weights,
		FactorContributions: contributions,
	}
}

// socialMediaScore is non-zero only when the scan flagged an anomaly.
func socialMediaScore(social *model.SocialEvidence) float64 {
	if social == nil || !social.AnomalyDetected {
		return 0
	}

	recent := 0
	for _, acc := range social.AccountsFound {
		age := undisclosedAccountAge
		if acc.AccountAgeDays != nil {
			age = *acc.AccountAgeDays
		}
		if age < recentAccountDays {
			recent++
		}
	}

	var score float64
	switch {
	case recent >= 3:
		score = 80
	case recent == 2:
		score = 60
	case recent == 1:
		score = 30
	}

	// Absence of any account is itself suspicious, and so is a swarm.
	switch found := len(social.AccountsFound); {
	case found == 0:
		score += 20
	case found > 5:
		score += 40
	}

	if score > 100 {
		score = 100
	}
	return score
}

func spamScore(count int) float64 {
	switch {
	case count <= 0:
		return 0
	case count <= 3:
		return 30
	case count <= 10:
		return 60
	case count <= 20:
		return 85
	default:
		return 100
	}
}

func fraudForumScore(mentions int) float64 {
	switch {
	case mentions <= 0:
		return 0
	case mentions == 1:
		return 50
	case mentions <= 3:
		return 80
	default:
		return 100
	}
}

// accountAgeScore averages the disclosed ages; undisclosed ages count as 0.
func accountAgeScore(social *model.SocialEvidence) float64 {
	if social == nil || len(social.AccountsFound) == 0 {
		return 30
	}

	total := 0
	for _, acc := range social.AccountsFound {
		if acc.AccountAgeDays != nil {
			total += *acc.AccountAgeDays
		}
	}
	avg := float64(total) / float64(len(social.AccountsFound))

	switch {
	case avg < 7:
		return 90
	case avg < 30:
		return 70
	case avg < 90:
		return 40
	case avg < 180:
		return 20
	default:
		return 0
	}
}

// geographicScore is a coarse placeholder: an unresolved location scores 20.
func geographicScore(location string) float64 {
	if location == "" || location == model.UnknownValue {
		return 20
	}
	return 0
}

func weighted(score, weight float64) decimal.Decimal {
	return decimal.NewFromFloat(score).Mul(decimal.NewFromFloat(weight))
}

func clamp(d decimal.Decimal) decimal.Decimal {
	lo, hi := decimal.Zero, decimal.NewFromInt(100)
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
