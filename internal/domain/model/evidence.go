package model

// ValidityEvidence is the normalized output of a number validity/carrier lookup.
type ValidityEvidence struct {
	Valid               bool   `json:"valid"`
	InternationalFormat string `json:"international_format"`
	LocalFormat         string `json:"local_format"`
	CountryCode         string `json:"country_code"`
	CountryName         string `json:"country_name"`
	Location            string `json:"location"`
	Carrier             string `json:"carrier"`
	LineType            string `json:"line_type"`
}

// FraudScoreEvidence is the normalized output of a fraud-score lookup.
// Scores are 0-100. Active defaults to true when the source does not say.
type FraudScoreEvidence struct {
	Prepaid     *bool  `json:"prepaid"`
	Carrier     string `json:"carrier"`
	LineType    string `json:"line_type"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Region      string `json:"region"`
	FraudScore  int    `json:"fraud_score"`
	SpamScore   int    `json:"spam_score"`
	RecentAbuse bool   `json:"recent_abuse"`
	VOIP        bool   `json:"voip"`
	Risky       bool   `json:"risky"`
	Active      bool   `json:"active"`
	DoNotCall   bool   `json:"do_not_call"`
}

// SpamReport is one source's view of spam activity for a number.
type SpamReport struct {
	Source       string   `json:"source"`
	Categories   []string `json:"categories"`
	LastReported string   `json:"last_reported"`
	ReportCount  int      `json:"report_count"`
	SpamScore    int      `json:"spam_score,omitempty"`
}

// SpamEvidence aggregates spam-database reports. Categories holds
// number-wide abuse labels, separate from each report's own categories.
type SpamEvidence struct {
	Sources      []string     `json:"sources"`
	Details      []SpamReport `json:"details"`
	Categories   []string     `json:"categories"`
	TotalReports int          `json:"total_reports"`
}

// ForumMention is a single fraud-related mention of a number.
type ForumMention struct {
	Source      string `json:"source"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// ForumEvidence aggregates fraud-forum and abuse-list mentions.
type ForumEvidence struct {
	RiskLevel     string         `json:"risk_level"`
	Sources       []string       `json:"sources"`
	Mentions      []ForumMention `json:"mentions"`
	MentionsCount int            `json:"mentions_count"`
}

// SocialAccount is an account found on a social platform. A nil age means
// the platform did not disclose it.
type SocialAccount struct {
	AccountAgeDays *int   `json:"account_age_days,omitempty"`
	Platform       string `json:"platform"`
	Handle         string `json:"handle"`
	URL            string `json:"url,omitempty"`
}

// SocialEvidence is the normalized output of a social-media presence scan.
type SocialEvidence struct {
	PlatformsChecked   []string        `json:"platforms_checked"`
	AccountsFound      []SocialAccount `json:"accounts_found"`
	AnomalyDescription string          `json:"anomaly_description"`
	Severity           string          `json:"severity,omitempty"`
	Warning            string          `json:"warning,omitempty"`
	AnomalyDetected    bool            `json:"anomaly_detected"`
}

// TelegramEvidence is the normalized output of a Telegram presence scan.
type TelegramEvidence struct {
	SuspiciousGroups   []string `json:"suspicious_groups"`
	Note               string   `json:"note,omitempty"`
	HasTelegramAccount bool     `json:"has_telegram_account"`
}

// WhatsAppEvidence is the normalized output of a WhatsApp presence check.
type WhatsAppEvidence struct {
	Note        string `json:"note,omitempty"`
	HasWhatsApp bool   `json:"has_whatsapp"`
}
