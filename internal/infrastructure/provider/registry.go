package provider

import (
	"log/slog"
	"time"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/infrastructure/config"
)

// Build wires the provider for each evidence kind according to its mode.
// Spam and forum evidence are derived from the fraud-score provider, so in
// live mode they see whatever the IPQS section selects.
func Build(cfg config.ProvidersConfig, logger *slog.Logger, now func() time.Time) port.ProviderSet {
	if now == nil {
		now = time.Now
	}

	fraud := pick(cfg.IPQS, IPQSName, stubFraudScore(), func() port.EvidenceProvider[model.FraudScoreEvidence] {
		return NewIPQSClient(cfg.IPQS.APIKey, cfg.IPQS.BaseURL, cfg.IPQS.EffectiveTimeout(), logger)
	})

	set := port.ProviderSet{
		Validity: pick(cfg.Numverify, NumverifyName, stubValidity(), func() port.EvidenceProvider[model.ValidityEvidence] {
			return NewNumverifyClient(cfg.Numverify.APIKey, cfg.Numverify.BaseURL, cfg.Numverify.EffectiveTimeout(), logger)
		}),
		FraudScore: fraud,
		Spam: pick(cfg.Spam, SpamCheckName, stubSpam(), func() port.EvidenceProvider[model.SpamEvidence] {
			return NewSpamChecker(fraud, now)
		}),
		FraudForum: pick(cfg.FraudForum, FraudForumName, stubForum(), func() port.EvidenceProvider[model.ForumEvidence] {
			return NewForumScanner(fraud)
		}),
		Social: pick(cfg.Social, SocialScanName, stubSocial(), func() port.EvidenceProvider[model.SocialEvidence] {
			return SocialScanner{}
		}),
		Telegram: pick(cfg.Telegram, TelegramScanName, stubTelegram(), func() port.EvidenceProvider[model.TelegramEvidence] {
			return TelegramScanner{}
		}),
		WhatsApp: pick(cfg.WhatsApp, WhatsAppName, stubWhatsApp(), func() port.EvidenceProvider[model.WhatsAppEvidence] {
			return WhatsAppChecker{}
		}),
	}

	logger.Info("evidence providers configured",
		slog.String("numverify", cfg.Numverify.EffectiveMode()),
		slog.String("ipqs", cfg.IPQS.EffectiveMode()),
		slog.String("spam", cfg.Spam.EffectiveMode()),
		slog.String("fraud_forum", cfg.FraudForum.EffectiveMode()),
		slog.String("social", cfg.Social.EffectiveMode()),
		slog.String("telegram", cfg.Telegram.EffectiveMode()),
		slog.String("whatsapp", cfg.WhatsApp.EffectiveMode()),
	)
	return set
}

func pick[T any](pc config.ProviderConfig, name string, stub T, live func() port.EvidenceProvider[T]) port.EvidenceProvider[T] {
	switch pc.EffectiveMode() {
	case config.ModeStub:
		return NewStub(name, stub)
	case config.ModeDisabled:
		return NewDisabled[T](name)
	default:
		return live()
	}
}
