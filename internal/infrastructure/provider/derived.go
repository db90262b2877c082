package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// Data source names of the providers derived from fraud-score evidence.
const (
	SpamCheckName  = "spam_database_check"
	FraudForumName = "fraud_forum_scan"
)

const (
	spamCategoryThreshold  = 50
	forumHighRiskThreshold = 75
)

var (
	_ port.EvidenceProvider[model.SpamEvidence]  = (*SpamChecker)(nil)
	_ port.EvidenceProvider[model.ForumEvidence] = (*ForumScanner)(nil)
)

// SpamChecker turns the fraud-score source's spam score into spam reports.
type SpamChecker struct {
	source port.EvidenceProvider[model.FraudScoreEvidence]
	now    func() time.Time
}

// NewSpamChecker creates a SpamChecker over a fraud-score source.
func NewSpamChecker(source port.EvidenceProvider[model.FraudScoreEvidence], now func() time.Time) *SpamChecker {
	if now == nil {
		now = time.Now
	}
	return &SpamChecker{source: source, now: now}
}

func (c *SpamChecker) Name() string { return SpamCheckName }

// Lookup derives spam reports: one report per ten points of spam score. Any
// positive score yields a detail entry, even when it rounds down to zero
// reports.
func (c *SpamChecker) Lookup(ctx context.Context, phone valueobject.PhoneNumber) model.Outcome[model.SpamEvidence] {
	out := c.source.Lookup(ctx, phone)
	fraud, ok := out.Get()
	if !ok {
		return model.Unavailable[model.SpamEvidence](sourceUnavailable(c.source.Name(), out.Reason()))
	}

	ev := model.SpamEvidence{
		Sources:    []string{},
		Details:    []model.SpamReport{},
		Categories: []string{},
	}
	if fraud.SpamScore <= 0 {
		return model.Available(ev)
	}

	category := "Potential Spam"
	if fraud.SpamScore > spamCategoryThreshold {
		category = "Spam"
	}

	ev.TotalReports = fraud.SpamScore / 10
	ev.Sources = append(ev.Sources, c.source.Name())
	ev.Details = append(ev.Details, model.SpamReport{
		Source:       c.source.Name(),
		ReportCount:  ev.TotalReports,
		Categories:   []string{category},
		SpamScore:    fraud.SpamScore,
		LastReported: c.now().UTC().Format(time.DateOnly),
	})
	if fraud.RecentAbuse {
		ev.Categories = append(ev.Categories, "Recent Abuse")
	}
	if fraud.VOIP {
		ev.Categories = append(ev.Categories, "VOIP")
	}
	return model.Available(ev)
}

// ForumScanner reports abuse flags of the fraud-score source as forum mentions.
type ForumScanner struct {
	source port.EvidenceProvider[model.FraudScoreEvidence]
}

// NewForumScanner creates a ForumScanner over a fraud-score source.
func NewForumScanner(source port.EvidenceProvider[model.FraudScoreEvidence]) *ForumScanner {
	return &ForumScanner{source: source}
}

func (s *ForumScanner) Name() string { return FraudForumName }

// Lookup yields one mention when the number is flagged as abusive or risky.
func (s *ForumScanner) Lookup(ctx context.Context, phone valueobject.PhoneNumber) model.Outcome[model.ForumEvidence] {
	out := s.source.Lookup(ctx, phone)
	fraud, ok := out.Get()
	if !ok {
		return model.Unavailable[model.ForumEvidence](sourceUnavailable(s.source.Name(), out.Reason()))
	}

	ev := model.ForumEvidence{
		RiskLevel: "LOW",
		Sources:   []string{s.source.Name()},
		Mentions:  []model.ForumMention{},
	}
	if !fraud.RecentAbuse && !fraud.Risky {
		return model.Available(ev)
	}

	severity := "MEDIUM"
	if fraud.RecentAbuse {
		severity = "HIGH"
	}
	ev.MentionsCount = 1
	ev.Mentions = append(ev.Mentions, model.ForumMention{
		Source:      s.source.Name() + " Fraud Database",
		Type:        "abuse_flag",
		Severity:    severity,
		Description: "Phone number flagged for suspicious activity",
	})

	ev.RiskLevel = "MEDIUM"
	if fraud.FraudScore > forumHighRiskThreshold {
		ev.RiskLevel = "HIGH"
	}
	return model.Available(ev)
}

func sourceUnavailable(name, reason string) string {
	return fmt.Sprintf("%s unavailable: %s", name, reason)
}
