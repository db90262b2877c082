package provider

import (
	"context"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// Data source names of the presence scanners.
const (
	SocialScanName   = "social_media_scan"
	TelegramScanName = "telegram_scan"
	WhatsAppName     = "whatsapp_check"
)

// SocialPlatforms are the platforms a social scan covers.
var SocialPlatforms = []string{"Facebook", "Twitter/X", "Instagram", "LinkedIn", "TikTok"}

// The presence scanners below answer "checked, nothing found". Platform
// lookups by phone number need per-platform API approval, so the live scan
// has no upstream to call yet.

// SocialScanner reports social-media presence.
type SocialScanner struct{}

func (SocialScanner) Name() string { return SocialScanName }

func (SocialScanner) Lookup(context.Context, valueobject.PhoneNumber) model.Outcome[model.SocialEvidence] {
	return model.Available(model.SocialEvidence{
		PlatformsChecked: append([]string(nil), SocialPlatforms...),
		AccountsFound:    []model.SocialAccount{},
		Warning:          "Social media scanning requires official API access and user consent",
	})
}

// TelegramScanner reports Telegram presence.
type TelegramScanner struct{}

func (TelegramScanner) Name() string { return TelegramScanName }

func (TelegramScanner) Lookup(context.Context, valueobject.PhoneNumber) model.Outcome[model.TelegramEvidence] {
	return model.Available(model.TelegramEvidence{
		SuspiciousGroups: []string{},
		Note:             "Requires Telegram API credentials and user consent",
	})
}

// WhatsAppChecker reports WhatsApp presence.
type WhatsAppChecker struct{}

func (WhatsAppChecker) Name() string { return WhatsAppName }

func (WhatsAppChecker) Lookup(context.Context, valueobject.PhoneNumber) model.Outcome[model.WhatsAppEvidence] {
	return model.Available(model.WhatsAppEvidence{
		Note: "Requires WhatsApp Business API access",
	})
}
