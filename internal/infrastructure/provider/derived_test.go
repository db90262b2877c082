package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/infrastructure/provider"
)

var fixedNow = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }

func fraudSource(ev model.FraudScoreEvidence) *provider.Static[model.FraudScoreEvidence] {
	return provider.NewStub(provider.IPQSName, ev)
}

func TestSpamChecker_DerivesReports(t *testing.T) {
	checker := provider.NewSpamChecker(fraudSource(model.FraudScoreEvidence{
		SpamScore:   65,
		RecentAbuse: true,
		VOIP:        true,
	}), fixedNow)

	ev, ok := checker.Lookup(context.Background(), testPhone).Get()

	require.True(t, ok)
	assert.Equal(t, 6, ev.TotalReports)
	assert.Equal(t, []string{"IPQualityScore"}, ev.Sources)
	assert.Equal(t, []string{"Recent Abuse", "VOIP"}, ev.Categories)
	require.Len(t, ev.Details, 1)
	assert.Equal(t, model.SpamReport{
		Source:       "IPQualityScore",
		ReportCount:  6,
		Categories:   []string{"Spam"},
		SpamScore:    65,
		LastReported: "2025-06-01",
	}, ev.Details[0])
}

func TestSpamChecker_Categories(t *testing.T) {
	tests := []struct {
		name      string
		spamScore int
		want      []string
	}{
		{"at threshold", 50, []string{"Potential Spam"}},
		{"above threshold", 51, []string{"Spam"}},
		{"low", 10, []string{"Potential Spam"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := provider.NewSpamChecker(fraudSource(model.FraudScoreEvidence{SpamScore: tt.spamScore}), fixedNow)

			ev, ok := checker.Lookup(context.Background(), testPhone).Get()

			require.True(t, ok)
			require.Len(t, ev.Details, 1)
			assert.Equal(t, tt.want, ev.Details[0].Categories)
			assert.Empty(t, ev.Categories)
		})
	}
}

func TestSpamChecker_LowScoreKeepsDetail(t *testing.T) {
	checker := provider.NewSpamChecker(fraudSource(model.FraudScoreEvidence{SpamScore: 9, VOIP: true}), fixedNow)

	ev, ok := checker.Lookup(context.Background(), testPhone).Get()

	require.True(t, ok)
	assert.Zero(t, ev.TotalReports)
	assert.Equal(t, []string{"IPQualityScore"}, ev.Sources)
	assert.Equal(t, []string{"VOIP"}, ev.Categories)
	require.Len(t, ev.Details, 1)
	assert.Zero(t, ev.Details[0].ReportCount)
	assert.Equal(t, 9, ev.Details[0].SpamScore)
	assert.Equal(t, []string{"Potential Spam"}, ev.Details[0].Categories)
}

func TestSpamChecker_ZeroScore(t *testing.T) {
	checker := provider.NewSpamChecker(fraudSource(model.FraudScoreEvidence{RecentAbuse: true}), fixedNow)

	ev, ok := checker.Lookup(context.Background(), testPhone).Get()

	require.True(t, ok)
	assert.Zero(t, ev.TotalReports)
	assert.Empty(t, ev.Sources)
	assert.Empty(t, ev.Details)
	assert.Empty(t, ev.Categories)
	assert.NotNil(t, ev.Details)
}

func TestSpamChecker_SourceUnavailable(t *testing.T) {
	checker := provider.NewSpamChecker(provider.NewDisabled[model.FraudScoreEvidence](provider.IPQSName), fixedNow)

	out := checker.Lookup(context.Background(), testPhone)

	assert.False(t, out.IsAvailable())
	assert.Equal(t, "IPQualityScore unavailable: IPQualityScore provider disabled", out.Reason())
}

func TestForumScanner(t *testing.T) {
	tests := []struct {
		name         string
		fraud        model.FraudScoreEvidence
		wantMentions int
		wantLevel    string
		wantSeverity string
	}{
		{"clean", model.FraudScoreEvidence{FraudScore: 90}, 0, "LOW", ""},
		{"recent abuse", model.FraudScoreEvidence{RecentAbuse: true, FraudScore: 60}, 1, "MEDIUM", "HIGH"},
		{"risky only", model.FraudScoreEvidence{Risky: true, FraudScore: 40}, 1, "MEDIUM", "MEDIUM"},
		{"flagged high score", model.FraudScoreEvidence{Risky: true, FraudScore: 76}, 1, "HIGH", "MEDIUM"},
		{"flagged at threshold", model.FraudScoreEvidence{RecentAbuse: true, FraudScore: 75}, 1, "MEDIUM", "HIGH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := provider.NewForumScanner(fraudSource(tt.fraud))

			ev, ok := scanner.Lookup(context.Background(), testPhone).Get()

			require.True(t, ok)
			assert.Equal(t, tt.wantMentions, ev.MentionsCount)
			assert.Len(t, ev.Mentions, tt.wantMentions)
			assert.Equal(t, tt.wantLevel, ev.RiskLevel)
			assert.Equal(t, []string{"IPQualityScore"}, ev.Sources)
			if tt.wantMentions > 0 {
				m := ev.Mentions[0]
				assert.Equal(t, "IPQualityScore Fraud Database", m.Source)
				assert.Equal(t, "abuse_flag", m.Type)
				assert.Equal(t, tt.wantSeverity, m.Severity)
			}
		})
	}
}

func TestForumScanner_SourceUnavailable(t *testing.T) {
	scanner := provider.NewForumScanner(provider.NewIPQSClient("", "", time.Second, discardLogger()))

	out := scanner.Lookup(context.Background(), testPhone)

	assert.False(t, out.IsAvailable())
	assert.Equal(t, "IPQualityScore unavailable: IPQualityScore API key not configured", out.Reason())
}

func TestPresenceScanners(t *testing.T) {
	ctx := context.Background()

	social, ok := provider.SocialScanner{}.Lookup(ctx, testPhone).Get()
	require.True(t, ok)
	assert.Equal(t, provider.SocialPlatforms, social.PlatformsChecked)
	assert.Empty(t, social.AccountsFound)
	assert.False(t, social.AnomalyDetected)
	assert.NotEmpty(t, social.Warning)

	tg, ok := provider.TelegramScanner{}.Lookup(ctx, testPhone).Get()
	require.True(t, ok)
	assert.False(t, tg.HasTelegramAccount)
	assert.Empty(t, tg.SuspiciousGroups)

	wa, ok := provider.WhatsAppChecker{}.Lookup(ctx, testPhone).Get()
	require.True(t, ok)
	assert.False(t, wa.HasWhatsApp)
}
