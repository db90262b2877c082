package port

import (
	"context"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// EvidenceProvider is the single capability every evidence source offers:
// given a canonical number, produce a normalized payload or an explicit
// unavailable marker. Implementations never panic or return errors for
// network or parsing failures.
type EvidenceProvider[T any] interface {
	// Name is the data source identifier recorded in data_sources_used.
	Name() string

	// Lookup queries the source once. Timeouts are the provider's own.
	Lookup(ctx context.Context, phone valueobject.PhoneNumber) model.Outcome[T]
}

// ProviderSet is the configured provider for each evidence kind.
type ProviderSet struct {
	Validity   EvidenceProvider[model.ValidityEvidence]
	FraudScore EvidenceProvider[model.FraudScoreEvidence]
	Spam       EvidenceProvider[model.SpamEvidence]
	FraudForum EvidenceProvider[model.ForumEvidence]
	Social     EvidenceProvider[model.SocialEvidence]
	Telegram   EvidenceProvider[model.TelegramEvidence]
	WhatsApp   EvidenceProvider[model.WhatsAppEvidence]
}
