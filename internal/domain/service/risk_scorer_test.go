package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/service"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// knownLocation keeps the geographic sub-score at zero so a single
// category can be isolated.
const knownLocation = "Mountain View, CA"

func TestRiskScorer_SpamBands(t *testing.T) {
	scorer := service.NewRiskScorer()

	tests := []struct {
		reports int
		want    float64
	}{
		{0, 0}, {3, 30}, {4, 60}, {10, 60}, {11, 85}, {20, 85}, {21, 100}, {500, 100},
	}

	for _, tt := range tests {
		out := scorer.Score(service.ScoringInput{SpamReports: tt.reports, Location: knownLocation})
		assert.Equal(t, tt.want, out.Categories.SpamReports, "reports=%d", tt.reports)
	}
}

func TestRiskScorer_FraudForumBands(t *testing.T) {
	scorer := service.NewRiskScorer()

	tests := []struct {
		mentions int
		want     float64
	}{
		{0, 0}, {1, 50}, {2, 80}, {3, 80}, {4, 100},
	}

	for _, tt := range tests {
		out := scorer.Score(service.ScoringInput{FraudMentions: tt.mentions, Location: knownLocation})
		assert.Equal(t, tt.want, out.Categories.FraudForums, "mentions=%d", tt.mentions)
	}
}

func TestRiskScorer_SocialMedia(t *testing.T) {
	scorer := service.NewRiskScorer()

	accounts := func(ages ...*int) []model.SocialAccount {
		out := make([]model.SocialAccount, 0, len(ages))
		for _, a := range ages {
			out = append(out, model.SocialAccount{Platform: "Facebook", AccountAgeDays: a})
		}
		return out
	}

	tests := []struct {
		name   string
		social *model.SocialEvidence
		want   float64
	}{
		{"nil evidence", nil, 0},
		{"no anomaly", &model.SocialEvidence{AccountsFound: accounts(intPtr(1), intPtr(2), intPtr(3))}, 0},
		{"anomaly without accounts", &model.SocialEvidence{AnomalyDetected: true, AccountsFound: accounts()}, 20},
		{"anomaly one recent", &model.SocialEvidence{AnomalyDetected: true, AccountsFound: accounts(intPtr(5), intPtr(400))}, 30},
		{"anomaly two recent", &model.SocialEvidence{AnomalyDetected: true, AccountsFound: accounts(intPtr(5), intPtr(10))}, 60},
		{"anomaly three recent", &model.SocialEvidence{AnomalyDetected: true, AccountsFound: accounts(intPtr(1), intPtr(2), intPtr(3))}, 80},
		{"undisclosed ages are not recent", &model.SocialEvidence{AnomalyDetected: true, AccountsFound: accounts(nil, nil)}, 0},
		{
			"swarm of recent accounts is capped",
			&model.SocialEvidence{AnomalyDetected: true, AccountsFound: accounts(intPtr(1), intPtr(1), intPtr(1), intPtr(1), intPtr(1), intPtr(1))},
			100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := scorer.Score(service.ScoringInput{Social: tt.social, Location: knownLocation})
			assert.Equal(t, tt.want, out.Categories.SocialMedia)
		})
	}
}

func TestRiskScorer_AccountAge(t *testing.T) {
	scorer := service.NewRiskScorer()

	score := func(ages ...*int) float64 {
		social := &model.SocialEvidence{}
		for _, a := range ages {
			social.AccountsFound = append(social.AccountsFound, model.SocialAccount{AccountAgeDays: a})
		}
		return scorer.Score(service.ScoringInput{Social: social, Location: knownLocation}).Categories.AccountAge
	}

	assert.Equal(t, 30.0, scorer.Score(service.ScoringInput{Location: knownLocation}).Categories.AccountAge)
	assert.Equal(t, 30.0, score())
	assert.Equal(t, 90.0, score(intPtr(3)))
	assert.Equal(t, 70.0, score(intPtr(7)))
	assert.Equal(t, 40.0, score(intPtr(30)))
	assert.Equal(t, 20.0, score(intPtr(90)))
	assert.Equal(t, 0.0, score(intPtr(180)))
	assert.Equal(t, 90.0, score(nil, intPtr(10)), "undisclosed ages count as zero")
}

func TestRiskScorer_AllEvidenceAbsent(t *testing.T) {
	out := service.NewRiskScorer().Score(service.ScoringInput{Location: model.UnknownValue})

	assert.Equal(t, 5.0, out.Score)
	assert.True(t, out.Level.Equal(valueobject.RiskLevelMinimal))
	assert.Equal(t, 30.0, out.Categories.AccountAge)
	assert.Equal(t, 20.0, out.Categories.Geographic)
}

func TestRiskScorer_CompositeAndRounding(t *testing.T) {
	social := &model.SocialEvidence{
		AnomalyDetected: true,
		AccountsFound: []model.SocialAccount{
			{AccountAgeDays: intPtr(1)}, {AccountAgeDays: intPtr(2)}, {AccountAgeDays: intPtr(3)},
		},
	}

	out := service.NewRiskScorer().Score(service.ScoringInput{
		Social:        social,
		SpamReports:   25,
		FraudMentions: 4,
		Location:      model.UnknownValue,
	})

	// 80*0.30 + 100*0.25 + 100*0.25 + 90*0.10 + 20*0.10
	assert.Equal(t, 85.0, out.Score)
	assert.True(t, out.Level.Equal(valueobject.RiskLevelHigh))
}

func TestRiskScorer_ScoreIsBounded(t *testing.T) {
	scorer := service.NewRiskScorer()

	for spam := 0; spam <= 30; spam += 3 {
		for fraud := 0; fraud <= 5; fraud++ {
			out := scorer.Score(service.ScoringInput{SpamReports: spam, FraudMentions: fraud})
			assert.GreaterOrEqual(t, out.Score, 0.0)
			assert.LessOrEqual(t, out.Score, 100.0)
			assert.True(t, out.Level.Equal(valueobject.RiskLevelFromScore(out.Score)))
		}
	}
}

func TestRiskScorer_Contribution(t *testing.T) {
	scorer := service.NewRiskScorer()

	f, err := model.NewRiskFactor(
		valueobject.CategorySpamReports, service.FactorReportedSpam, valueobject.SeverityHigh, 0.25,
		"Number reported 12 times in spam databases", nil, "Spam Databases", testNow,
	)
	require.NoError(t, err)

	assert.Equal(t, 20.0, scorer.Contribution(f))

	f.Severity = valueobject.SeverityLow
	f.Weight = 0.15
	assert.Equal(t, 3.75, scorer.Contribution(f))
}

func TestRiskScorer_ContributionDoesNotAffectScore(t *testing.T) {
	scorer := service.NewRiskScorer()
	in := service.ScoringInput{SpamReports: 12, FraudMentions: 1, Location: knownLocation}

	before := scorer.Score(in)
	f, err := model.NewRiskFactor(
		valueobject.CategoryFraudForum, service.FactorFraudMention, valueobject.SeverityCritical, 1,
		"mention", nil, "Fraud Forums", testNow,
	)
	require.NoError(t, err)
	_ = scorer.Contribution(f)

	assert.Equal(t, before, scorer.Score(in))
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := service.DefaultWeights()
	assert.InDelta(t, 1.0, w.SocialMedia+w.SpamReports+w.FraudForums+w.AccountAge+w.Geographic, 1e-9)
}
