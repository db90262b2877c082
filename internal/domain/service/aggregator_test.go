package service_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/service"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

var testPhone = valueobject.MustPhoneNumber("+16502530000")

func newAggregator(providers port.ProviderSet, opts ...service.AggregatorOption) *service.Aggregator {
	opts = append([]service.AggregatorOption{service.WithClock(fixedClock)}, opts...)
	return service.NewAggregator(providers, service.NewRiskScorer(), discardLogger(), opts...)
}

func TestAggregator_HealthyRun(t *testing.T) {
	a, err := newAggregator(healthyProviders()).Aggregate(context.Background(), testPhone, false)
	require.NoError(t, err)

	assert.Equal(t, "+16502530000", a.PhoneNumber().String())
	assert.Equal(t, "+1", a.Identity().CountryCode)
	assert.Empty(t, a.StepErrors())
	assert.Equal(t, []string{
		"phonenumbers_library", "IPQualityScore", "Numverify",
		"social_media_scan", "fraud_forum_scan", "telegram_scan", "whatsapp_check",
	}, a.DataSourcesUsed())

	require.NotNil(t, a.RichMetadata())
	assert.True(t, a.RichMetadata().CarrierDetails.PortingDetected)
	assert.Equal(t, []string{service.FactorVOIPNumber, service.FactorPortingDetected, service.FactorReportedSpam}, a.FactorTypes())

	factors := a.RiskFactors()
	assert.Equal(t, 7.5, factors[0].ScoreContribution)
	assert.Equal(t, 2.5, factors[1].ScoreContribution)
	assert.Equal(t, 12.5, factors[2].ScoreContribution)
	for _, f := range factors {
		assert.Equal(t, testNow, f.DetectedAt)
	}

	assert.Equal(t, 3, a.SpamReportsCount())
	assert.Len(t, a.SpamDetails(), 1)
	assert.Equal(t, testNow, a.AnalyzedAt())

	// spam 30*0.25 + account age 30*0.10, location resolved
	assert.Equal(t, 10.5, a.RiskScore())
	assert.True(t, a.RiskLevel().Equal(valueobject.RiskLevelMinimal))
}

func TestAggregator_SpamFailureIsIsolated(t *testing.T) {
	providers := healthyProviders()
	providers.Spam = unavailable[model.SpamEvidence]("spam", "connection refused")
	metrics := &mockMetrics{}

	a, err := newAggregator(providers, service.WithMetrics(metrics)).Aggregate(context.Background(), testPhone, false)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{model.StepErrorSpamCheck: "spam: connection refused"}, a.StepErrors())
	assert.Equal(t, 0, a.SpamReportsCount())
	assert.Empty(t, a.SpamDetails())
	assert.NotContains(t, a.FactorTypes(), service.FactorReportedSpam)
	assert.NotNil(t, a.RichMetadata())
	assert.NotNil(t, a.SocialPresence())
	assert.Equal(t, []string{"spam_check"}, metrics.steps)
}

func TestAggregator_RichMetadataPartialFailure(t *testing.T) {
	t.Run("validity unavailable", func(t *testing.T) {
		providers := healthyProviders()
		providers.Validity = unavailable[model.ValidityEvidence]("Numverify", "Numverify API key not configured")

		a, err := newAggregator(providers).Aggregate(context.Background(), testPhone, false)
		require.NoError(t, err)

		require.NotNil(t, a.RichMetadata())
		assert.Equal(t, "Google Voice", a.RichMetadata().CarrierDetails.CurrentCarrier)
		assert.False(t, a.RichMetadata().CarrierDetails.PortingDetected)
		assert.Equal(t, "Numverify: Numverify API key not configured", a.StepErrors()[model.StepErrorRichMetadata])
		assert.NotContains(t, a.DataSourcesUsed(), "Numverify")
		assert.Contains(t, a.DataSourcesUsed(), "IPQualityScore")
	})

	t.Run("both unavailable", func(t *testing.T) {
		providers := healthyProviders()
		providers.Validity = unavailable[model.ValidityEvidence]("Numverify", "timeout")
		providers.FraudScore = unavailable[model.FraudScoreEvidence]("IPQualityScore", "quota exceeded")

		a, err := newAggregator(providers).Aggregate(context.Background(), testPhone, false)
		require.NoError(t, err)

		assert.Nil(t, a.RichMetadata())
		assert.Equal(t, "Numverify: timeout; IPQualityScore: quota exceeded", a.StepErrors()[model.StepErrorRichMetadata])
		assert.NotContains(t, a.FactorTypes(), service.FactorVOIPNumber)
	})
}

func TestAggregator_PanickingProviderIsIsolated(t *testing.T) {
	providers := healthyProviders()
	providers.FraudForum = &fakeProvider[model.ForumEvidence]{name: "fraud_forum_scan", panics: "boom"}

	for _, parallel := range []bool{false, true} {
		a, err := newAggregator(providers, service.WithParallelFetch(parallel)).Aggregate(context.Background(), testPhone, false)
		require.NoError(t, err)

		assert.Contains(t, a.StepErrors()[model.StepErrorFraudScan], "boom")
		assert.Len(t, a.StepErrors(), 1)
		assert.Equal(t, 3, a.SpamReportsCount())
	}
}

func TestAggregator_NoProvidersConfigured(t *testing.T) {
	a, err := newAggregator(port.ProviderSet{}).Aggregate(context.Background(), testPhone, true)
	require.NoError(t, err)

	errs := a.StepErrors()
	assert.NotContains(t, errs, model.StepErrorBasicInfo)
	for _, key := range []string{
		model.StepErrorRichMetadata, model.StepErrorSocialMedia, model.StepErrorSpamCheck,
		model.StepErrorFraudScan, model.StepErrorMessagingApps,
	} {
		assert.Contains(t, errs, key)
	}
	assert.Equal(t, []string{"phonenumbers_library"}, a.DataSourcesUsed())
	assert.Empty(t, a.RiskFactors())
	assert.True(t, a.DeepScan())
	// account age 30*0.10 with no evidence, location resolved offline
	assert.Equal(t, 3.0, a.RiskScore())
}

func TestAggregator_MessagingPartial(t *testing.T) {
	providers := healthyProviders()
	providers.Telegram = available("telegram_scan", model.TelegramEvidence{SuspiciousGroups: []string{"crypto-deals"}})
	providers.WhatsApp = unavailable[model.WhatsAppEvidence]("whatsapp_check", "disabled")

	a, err := newAggregator(providers).Aggregate(context.Background(), testPhone, false)
	require.NoError(t, err)

	assert.Contains(t, a.FactorTypes(), service.FactorSuspiciousTelegramActivity)
	assert.Nil(t, a.WhatsAppPresence())
	assert.Equal(t, "whatsapp_check: disabled", a.StepErrors()[model.StepErrorMessagingApps])
}

func TestAggregator_Deterministic(t *testing.T) {
	ignoreID := cmpopts.IgnoreFields(model.AnalysisSnapshot{}, "ID")

	first, err := newAggregator(healthyProviders()).Aggregate(context.Background(), testPhone, false)
	require.NoError(t, err)

	t.Run("repeat run", func(t *testing.T) {
		second, err := newAggregator(healthyProviders()).Aggregate(context.Background(), testPhone, false)
		require.NoError(t, err)

		if diff := cmp.Diff(first.Snapshot(), second.Snapshot(), ignoreID); diff != "" {
			t.Errorf("repeat run differs (-first +second):\n%s", diff)
		}
	})

	t.Run("parallel fetch", func(t *testing.T) {
		parallel, err := newAggregator(healthyProviders(), service.WithParallelFetch(true)).
			Aggregate(context.Background(), testPhone, false)
		require.NoError(t, err)

		if diff := cmp.Diff(first.Snapshot(), parallel.Snapshot(), ignoreID); diff != "" {
			t.Errorf("parallel run differs (-sequential +parallel):\n%s", diff)
		}
	})
}

func TestAggregator_CallsEachProviderOnce(t *testing.T) {
	providers := healthyProviders()
	_, err := newAggregator(providers, service.WithParallelFetch(true)).Aggregate(context.Background(), testPhone, false)
	require.NoError(t, err)

	assert.Equal(t, int32(1), providers.Validity.(*fakeProvider[model.ValidityEvidence]).calls.Load())
	assert.Equal(t, int32(1), providers.FraudScore.(*fakeProvider[model.FraudScoreEvidence]).calls.Load())
	assert.Equal(t, int32(1), providers.Spam.(*fakeProvider[model.SpamEvidence]).calls.Load())
	assert.Equal(t, int32(1), providers.WhatsApp.(*fakeProvider[model.WhatsAppEvidence]).calls.Load())
}

func TestAggregator_HighRiskEvents(t *testing.T) {
	providers := healthyProviders()
	providers.Spam = available("spam", model.SpamEvidence{TotalReports: 30, Sources: []string{"IPQualityScore"}})
	providers.FraudForum = available("fraud_forum_scan", model.ForumEvidence{MentionsCount: 5})
	providers.Social = available("social_media_scan", model.SocialEvidence{
		AnomalyDetected: true,
		AccountsFound: []model.SocialAccount{
			{AccountAgeDays: intPtr(1)}, {AccountAgeDays: intPtr(2)}, {AccountAgeDays: intPtr(3)},
		},
	})

	a, err := newAggregator(providers).Aggregate(context.Background(), testPhone, false)
	require.NoError(t, err)

	// 80*0.30 + 100*0.25 + 100*0.25 + 90*0.10
	assert.Equal(t, 83.0, a.RiskScore())
	assert.True(t, a.RiskLevel().Equal(valueobject.RiskLevelHigh))
	assert.Len(t, a.DomainEvents(), 2)
}

func TestAggregator_SpamWithoutSourcesAddsNone(t *testing.T) {
	providers := healthyProviders()
	providers.Spam = available("spam_check", model.SpamEvidence{})

	a, err := newAggregator(providers).Aggregate(context.Background(), testPhone, false)
	require.NoError(t, err)

	assert.NotContains(t, a.DataSourcesUsed(), "spam_check")
	assert.NotContains(t, a.StepErrors(), model.StepErrorSpamCheck)
	assert.Zero(t, a.SpamReportsCount())
}
