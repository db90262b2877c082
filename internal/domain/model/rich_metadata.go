package model

// RichMetadata is the merged view over the validity and fraud-score
// providers. It is computed once per run and never modified afterwards.
type RichMetadata struct {
	CarrierDetails CarrierDetails       `json:"carrier_details"`
	GeographicData GeographicData       `json:"geographic_data"`
	NumberStatus   NumberStatus         `json:"number_status"`
	Reputation     ReputationIndicators `json:"reputation_indicators"`
	EstimatedAge   string               `json:"estimated_age"`
}

// CarrierDetails describes current and original carrier assignment.
type CarrierDetails struct {
	IsPrepaid       *bool           `json:"is_prepaid"`
	CurrentCarrier  string          `json:"current_carrier"`
	OriginalCarrier string          `json:"original_carrier"`
	LineType        string          `json:"line_type"`
	PortingHistory  []PortingRecord `json:"porting_history,omitempty"`
	PortingDetected bool            `json:"porting_detected"`
	IsVOIP          bool            `json:"is_voip"`
}

// PortingRecord is one entry of a number's carrier history.
type PortingRecord struct {
	Carrier string `json:"carrier"`
	Status  string `json:"status"`
}

// GeographicData describes where the number is registered.
type GeographicData struct {
	Country           string   `json:"country"`
	CountryName       string   `json:"country_name"`
	City              string   `json:"city"`
	Region            string   `json:"region"`
	LocationFormatted string   `json:"location_formatted"`
	Timezone          string   `json:"timezone"`
	AllTimezones      []string `json:"all_timezones"`
}

// NumberStatus carries the line status flags.
type NumberStatus struct {
	Active    bool `json:"active"`
	Valid     bool `json:"valid"`
	Risky     bool `json:"risky"`
	DoNotCall bool `json:"do_not_call"`
}

// ReputationIndicators carries upstream reputation scores.
type ReputationIndicators struct {
	FraudScore   int  `json:"fraud_score"`
	SpamScore    int  `json:"spam_score"`
	RecentAbuse  bool `json:"recent_abuse"`
	LeakDetected bool `json:"leak_detected"`
}
