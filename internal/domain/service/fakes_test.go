package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProvider returns a canned outcome and counts calls.
type fakeProvider[T any] struct {
	name    string
	outcome model.Outcome[T]
	panics  string
	calls   atomic.Int32
}

func available[T any](name string, v T) *fakeProvider[T] {
	return &fakeProvider[T]{name: name, outcome: model.Available(v)}
}

func unavailable[T any](name, reason string) *fakeProvider[T] {
	return &fakeProvider[T]{name: name, outcome: model.Unavailable[T](reason)}
}

func (p *fakeProvider[T]) Name() string { return p.name }

func (p *fakeProvider[T]) Lookup(_ context.Context, _ valueobject.PhoneNumber) model.Outcome[T] {
	p.calls.Add(1)
	if p.panics != "" {
		panic(p.panics)
	}
	return p.outcome
}

type mockMetrics struct {
	mu    sync.Mutex
	steps []string
}

func (m *mockMetrics) RecordAnalysis(context.Context, string, bool, time.Duration) {}

func (m *mockMetrics) RecordStepFailure(_ context.Context, step string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step)
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

// healthyProviders returns a full provider set describing a ported VOIP
// number with a light spam history.
func healthyProviders() port.ProviderSet {
	return port.ProviderSet{
		Validity: available("Numverify", model.ValidityEvidence{
			Valid:       true,
			CountryCode: "US",
			CountryName: "United States of America",
			Location:    "Mountain View",
			Carrier:     "AT&T Mobility LLC",
			LineType:    "mobile",
		}),
		FraudScore: available("IPQualityScore", model.FraudScoreEvidence{
			Carrier:    "Google Voice",
			LineType:   "VOIP",
			Country:    "US",
			City:       "Mountain View",
			Region:     "CA",
			FraudScore: 40,
			SpamScore:  30,
			VOIP:       true,
			Active:     true,
			Prepaid:    boolPtr(false),
		}),
		Spam: available("spam", model.SpamEvidence{
			TotalReports: 3,
			Sources:      []string{"IPQualityScore"},
			Details: []model.SpamReport{{
				Source: "IPQualityScore", ReportCount: 3,
				Categories: []string{"Potential Spam", "VOIP"}, LastReported: "Recent",
			}},
		}),
		FraudForum: available("fraud_forum_scan", model.ForumEvidence{
			RiskLevel: "LOW",
			Sources:   []string{"IPQualityScore"},
			Mentions:  []model.ForumMention{},
		}),
		Social: available("social_media_scan", model.SocialEvidence{
			PlatformsChecked: []string{"Facebook"},
			AccountsFound:    []model.SocialAccount{},
		}),
		Telegram: available("telegram_scan", model.TelegramEvidence{SuspiciousGroups: []string{}}),
		WhatsApp: available("whatsapp_check", model.WhatsAppEvidence{}),
	}
}
