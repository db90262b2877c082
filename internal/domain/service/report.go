package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// ReportVersion is stamped on every generated report.
const ReportVersion = "1.0"

// heavySpamReportCount is the spam count above which the report adds an
// explicit spam-history warning.
const heavySpamReportCount = 10

var threatCategories = map[string]string{
	valueobject.RiskLevelCritical.String(): "Confirmed Fraud",
	valueobject.RiskLevelHigh.String():     "Likely Fraud",
	valueobject.RiskLevelMedium.String():   "Suspicious Activity",
	valueobject.RiskLevelLow.String():      "Minor Concerns",
	valueobject.RiskLevelMinimal.String():  "Clean",
}

// Report is the analyst-facing view of one analysis.
type Report struct {
	Metadata         ReportMetadata     `json:"report_metadata"`
	ExecutiveSummary ExecutiveSummary   `json:"executive_summary"`
	PhoneInformation PhoneInformation   `json:"phone_information"`
	RiskAssessment   RiskAssessment     `json:"risk_assessment"`
	OSINTFindings    OSINTFindings      `json:"osint_findings"`
	RiskFactors      []model.RiskFactor `json:"detailed_risk_factors"`
	Recommendations  []string           `json:"recommendations"`
}

type ReportMetadata struct {
	GeneratedAt   time.Time `json:"generated_at"`
	ReportVersion string    `json:"report_version"`
	AnalysisID    string    `json:"analysis_id"`
}

type ExecutiveSummary struct {
	SummaryText string      `json:"summary_text"`
	RiskLevel   string      `json:"risk_level"`
	KeyFindings KeyFindings `json:"key_findings"`
	RiskScore   float64     `json:"risk_score"`
}

type KeyFindings struct {
	SpamReports      int `json:"spam_reports"`
	FraudMentions    int `json:"fraud_mentions"`
	RiskFactorsCount int `json:"risk_factors_count"`
}

type PhoneInformation struct {
	PhoneNumber      string    `json:"phone_number"`
	CountryCode      string    `json:"country_code"`
	Carrier          string    `json:"carrier"`
	LineType         string    `json:"line_type"`
	AnalysisDate     time.Time `json:"analysis_date"`
	AnalysisDuration string    `json:"analysis_duration"`
}

type RiskAssessment struct {
	RiskLevel      string  `json:"risk_level"`
	ThreatCategory string  `json:"threat_category"`
	RiskScore      float64 `json:"risk_score"`
}

type OSINTFindings struct {
	DataSources         string `json:"data_sources"`
	TelegramPresence    string `json:"telegram_presence"`
	WhatsAppPresence    string `json:"whatsapp_presence"`
	SpamReports         int    `json:"spam_reports"`
	FraudMentions       int    `json:"fraud_mentions"`
	SocialMediaAccounts int    `json:"social_media_accounts"`
}

// ThreatCategory names the threat class of a risk level.
func ThreatCategory(level valueobject.RiskLevel) string {
	if c, ok := threatCategories[level.String()]; ok {
		return c
	}
	return "Unknown"
}

// BuildReport assembles the report for a stored analysis.
func BuildReport(a *model.PhoneAnalysis, generatedAt time.Time) Report {
	identity := a.Identity()

	accounts := 0
	if sp := a.SocialPresence(); sp != nil {
		accounts = len(sp.AccountsFound)
	}

	return Report{
		Metadata: ReportMetadata{
			GeneratedAt:   generatedAt.UTC(),
			ReportVersion: ReportVersion,
			AnalysisID:    a.ID().String(),
		},
		ExecutiveSummary: ExecutiveSummary{
			SummaryText: summaryText(a),
			RiskScore:   a.RiskScore(),
			RiskLevel:   a.RiskLevel().String(),
			KeyFindings: KeyFindings{
				SpamReports:      a.SpamReportsCount(),
				FraudMentions:    a.FraudMentionsCount(),
				RiskFactorsCount: len(a.RiskFactors()),
			},
		},
		PhoneInformation: PhoneInformation{
			PhoneNumber:      identity.Number.String(),
			CountryCode:      identity.CountryCode,
			Carrier:          identity.Carrier,
			LineType:         identity.LineType,
			AnalysisDate:     a.AnalyzedAt(),
			AnalysisDuration: fmt.Sprintf("%.2fs", a.Duration().Seconds()),
		},
		RiskAssessment: RiskAssessment{
			RiskScore:      a.RiskScore(),
			RiskLevel:      a.RiskLevel().String(),
			ThreatCategory: ThreatCategory(a.RiskLevel()),
		},
		OSINTFindings: OSINTFindings{
			SpamReports:         a.SpamReportsCount(),
			FraudMentions:       a.FraudMentionsCount(),
			SocialMediaAccounts: accounts,
			DataSources:         strings.Join(a.DataSourcesUsed(), ", "),
			TelegramPresence:    yesNo(a.TelegramPresence() != nil && a.TelegramPresence().HasTelegramAccount),
			WhatsAppPresence:    yesNo(a.WhatsAppPresence() != nil && a.WhatsAppPresence().HasWhatsApp),
		},
		RiskFactors:     a.RiskFactors(),
		Recommendations: Recommendations(a),
	}
}

// Recommendations lists the suggested handling for an analysis.
func Recommendations(a *model.PhoneAnalysis) []string {
	var recs []string

	switch {
	case a.RiskLevel().AtLeast(valueobject.RiskLevelHigh):
		recs = append(recs,
			"Do not engage with this phone number",
			"Block the number immediately",
			"Report to local authorities if contacted",
			"Alert your organization's security team",
		)
	case a.RiskLevel().Equal(valueobject.RiskLevelMedium):
		recs = append(recs,
			"Exercise caution when engaging with this number",
			"Verify identity through alternative channels",
			"Do not share sensitive information",
			"Monitor for suspicious activity",
		)
	default:
		recs = append(recs,
			"Standard verification procedures recommended",
			"Follow normal security protocols",
			"Continue monitoring if concerns arise",
		)
	}

	if a.SpamReportsCount() > heavySpamReportCount {
		recs = append(recs, "Number has extensive spam history - treat with extreme caution")
	}
	if a.FraudMentionsCount() > 0 {
		recs = append(recs, "Number mentioned in fraud forums - consider blocking")
	}
	return recs
}

func summaryText(a *model.PhoneAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis of phone number %s reveals a %s risk level with an overall risk score of %s/100. ",
		a.PhoneNumber(), a.RiskLevel(), formatScore(a.RiskScore()))

	if n := a.SpamReportsCount(); n > 0 {
		fmt.Fprintf(&b, "The number has %d spam report(s). ", n)
	}
	if n := a.FraudMentionsCount(); n > 0 {
		fmt.Fprintf(&b, "Found %d mention(s) in fraud forums. ", n)
	}

	switch {
	case a.RiskLevel().AtLeast(valueobject.RiskLevelHigh):
		b.WriteString("Immediate investigation recommended.")
	case a.RiskLevel().Equal(valueobject.RiskLevelMedium):
		b.WriteString("Caution advised when engaging with this number.")
	default:
		b.WriteString("No significant fraud indicators detected.")
	}
	return b.String()
}

// RenderText formats a report as plain text for terminals and files.
func RenderText(r Report) string {
	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	section := func(title string) {
		line("%s", thin)
		line("%s", title)
		line("%s", thin)
	}

	line("%s", rule)
	line("PHONE RISK ANALYSIS REPORT")
	line("%s", rule)
	line("Generated: %s", r.Metadata.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	line("Report ID: %s", r.Metadata.AnalysisID)
	line("")

	section("EXECUTIVE SUMMARY")
	line("%s", r.ExecutiveSummary.SummaryText)
	line("")

	section("PHONE NUMBER INFORMATION")
	p := r.PhoneInformation
	line("Phone Number: %s", p.PhoneNumber)
	line("Country Code: %s", p.CountryCode)
	line("Carrier: %s", p.Carrier)
	line("Line Type: %s", p.LineType)
	line("Analysis Date: %s", p.AnalysisDate.Format(time.RFC3339))
	line("Analysis Duration: %s", p.AnalysisDuration)
	line("")

	section("RISK ASSESSMENT")
	line("Risk Score: %s/100", formatScore(r.RiskAssessment.RiskScore))
	line("Risk Level: %s", r.RiskAssessment.RiskLevel)
	line("Threat Category: %s", r.RiskAssessment.ThreatCategory)
	line("")

	section("DETAILED RISK FACTORS")
	for i, f := range r.RiskFactors {
		line("")
		line("%d. %s", i+1, strings.ToUpper(f.FactorType))
		line("   Category: %s", f.Category)
		line("   Severity: %s", f.Severity)
		line("   Description: %s", f.Description)
		line("   Score Contribution: %s", formatScore(f.ScoreContribution))
	}
	line("")

	section("OSINT FINDINGS")
	o := r.OSINTFindings
	line("Spam Reports: %d", o.SpamReports)
	line("Fraud Mentions: %d", o.FraudMentions)
	line("Social Media Accounts: %d", o.SocialMediaAccounts)
	line("Data Sources: %s", o.DataSources)
	line("Telegram Presence: %s", o.TelegramPresence)
	line("WhatsApp Presence: %s", o.WhatsAppPresence)
	line("")

	section("RECOMMENDATIONS")
	for i, rec := range r.Recommendations {
		line("%d. %s", i+1, rec)
	}
	line("")

	line("%s", rule)
	line("END OF REPORT")
	line("%s", rule)
	return b.String()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
