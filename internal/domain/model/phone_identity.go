package model

import "github.com/phonerisk/phonerisk/internal/domain/valueobject"

// UnknownValue is the placeholder used for attributes no source could resolve.
const UnknownValue = "Unknown"

// PhoneIdentity is what can be derived from the number itself, without any
// network call.
type PhoneIdentity struct {
	Number      valueobject.PhoneNumber `json:"phone_number"`
	CountryCode string                  `json:"country_code"`
	Carrier     string                  `json:"carrier"`
	LineType    string                  `json:"line_type"`
	Location    string                  `json:"location"`
	Timezones   []string                `json:"timezones"`
}

// LocationKnown reports whether geocoding resolved a location.
func (p PhoneIdentity) LocationKnown() bool {
	return p.Location != "" && p.Location != UnknownValue
}
