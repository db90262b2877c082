package service

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// PhoneNumbersLibrarySource is the data source recorded for offline parsing.
const PhoneNumbersLibrarySource = "phonenumbers_library"

var numberTypeNames = map[phonenumbers.PhoneNumberType]string{
	phonenumbers.FIXED_LINE:           "FIXED_LINE",
	phonenumbers.MOBILE:               "MOBILE",
	phonenumbers.FIXED_LINE_OR_MOBILE: "FIXED_LINE_OR_MOBILE",
	phonenumbers.TOLL_FREE:            "TOLL_FREE",
	phonenumbers.PREMIUM_RATE:         "PREMIUM_RATE",
	phonenumbers.SHARED_COST:          "SHARED_COST",
	phonenumbers.VOIP:                 "VOIP",
	phonenumbers.PERSONAL_NUMBER:      "PERSONAL_NUMBER",
	phonenumbers.PAGER:                "PAGER",
	phonenumbers.UAN:                  "UAN",
	phonenumbers.VOICEMAIL:            "VOICEMAIL",
}

// DescribeNumber derives carrier, line type, geography and time zones from
// the number's own metadata. It makes no network calls.
func DescribeNumber(phone valueobject.PhoneNumber) (model.PhoneIdentity, error) {
	num, err := phone.Parsed()
	if err != nil {
		return model.PhoneIdentity{}, fmt.Errorf("failed to parse %q: %w", phone.String(), err)
	}

	carrier, err := phonenumbers.GetCarrierForNumber(num, "en")
	if err != nil || carrier == "" {
		carrier = model.UnknownValue
	}

	location, err := phonenumbers.GetGeocodingForNumber(num, "en")
	if err != nil || location == "" {
		location = model.UnknownValue
	}

	timezones, err := phonenumbers.GetTimezonesForNumber(num)
	if err != nil || timezones == nil {
		timezones = []string{}
	}

	lineType, ok := numberTypeNames[phonenumbers.GetNumberType(num)]
	if !ok {
		lineType = "UNKNOWN"
	}

	return model.PhoneIdentity{
		Number:      phone,
		CountryCode: fmt.Sprintf("+%d", num.GetCountryCode()),
		Carrier:     carrier,
		LineType:    lineType,
		Location:    location,
		Timezones:   timezones,
	}, nil
}
