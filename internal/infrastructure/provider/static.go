package provider

import (
	"context"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// Static always returns the same outcome. It backs the stub and disabled
// provider modes.
type Static[T any] struct {
	outcome model.Outcome[T]
	name    string
}

// NewStub returns a provider that always yields value.
func NewStub[T any](name string, value T) *Static[T] {
	return &Static[T]{name: name, outcome: model.Available(value)}
}

// NewDisabled returns a provider that is always unavailable.
func NewDisabled[T any](name string) *Static[T] {
	return &Static[T]{name: name, outcome: model.Unavailable[T](name + " provider disabled")}
}

func (s *Static[T]) Name() string { return s.name }

func (s *Static[T]) Lookup(context.Context, valueobject.PhoneNumber) model.Outcome[T] {
	return s.outcome
}

// Canned evidence for stub mode.

func stubValidity() model.ValidityEvidence {
	return model.ValidityEvidence{
		Valid:       true,
		CountryCode: "US",
		CountryName: "United States of America",
		Location:    "Stubville",
		Carrier:     "Stub Wireless",
		LineType:    "mobile",
	}
}

func stubFraudScore() model.FraudScoreEvidence {
	prepaid := false
	return model.FraudScoreEvidence{
		FraudScore: 35,
		SpamScore:  25,
		Prepaid:    &prepaid,
		Active:     true,
		Carrier:    "Stub Wireless",
		LineType:   "Wireless",
		Country:    "US",
		City:       "Stubville",
		Region:     "CA",
	}
}

func stubSpam() model.SpamEvidence {
	return model.SpamEvidence{
		TotalReports: 2,
		Sources:      []string{"stub_spam_db"},
		Details: []model.SpamReport{{
			Source:       "stub_spam_db",
			ReportCount:  2,
			Categories:   []string{"Potential Spam"},
			SpamScore:    25,
			LastReported: "2025-01-01",
		}},
		Categories: []string{},
	}
}

func stubForum() model.ForumEvidence {
	return model.ForumEvidence{
		RiskLevel: "LOW",
		Sources:   []string{"stub_forum"},
		Mentions:  []model.ForumMention{},
	}
}

func stubSocial() model.SocialEvidence {
	return model.SocialEvidence{
		PlatformsChecked: append([]string(nil), SocialPlatforms...),
		AccountsFound:    []model.SocialAccount{},
	}
}

func stubTelegram() model.TelegramEvidence {
	return model.TelegramEvidence{SuspiciousGroups: []string{}}
}

func stubWhatsApp() model.WhatsAppEvidence {
	return model.WhatsAppEvidence{HasWhatsApp: true}
}
