package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidPhoneNumber is returned when a number cannot be parsed or is not
// a valid, dialable number.
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// PhoneNumber is a canonical E.164 telephone number.
type PhoneNumber struct {
	e164 string
}

// NewPhoneNumber parses raw input in international format (leading "+") and
// canonicalises it to E.164.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PhoneNumber{}, fmt.Errorf("%w: phone number is required", ErrInvalidPhoneNumber)
	}

	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return PhoneNumber{}, fmt.Errorf("%w: %v", ErrInvalidPhoneNumber, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return PhoneNumber{}, fmt.Errorf("%w: %s is not a valid number", ErrInvalidPhoneNumber, raw)
	}

	return PhoneNumber{e164: phonenumbers.Format(num, phonenumbers.E164)}, nil
}

// MustPhoneNumber is NewPhoneNumber for fixtures and constants. It panics on bad input.
func MustPhoneNumber(raw string) PhoneNumber {
	p, err := NewPhoneNumber(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the E.164 form, e.g. "+14155552671".
func (p PhoneNumber) String() string {
	return p.e164
}

// Digits returns the E.164 form without the leading "+".
func (p PhoneNumber) Digits() string {
	return strings.TrimPrefix(p.e164, "+")
}

// Parsed returns the libphonenumber representation of the number.
func (p PhoneNumber) Parsed() (*phonenumbers.PhoneNumber, error) {
	if p.e164 == "" {
		return nil, fmt.Errorf("%w: empty phone number", ErrInvalidPhoneNumber)
	}
	return phonenumbers.Parse(p.e164, "")
}

func (p PhoneNumber) IsZero() bool { return p.e164 == "" }

func (p PhoneNumber) Equal(other PhoneNumber) bool { return p.e164 == other.e164 }

// MarshalText implements encoding.TextMarshaler.
func (p PhoneNumber) MarshalText() ([]byte, error) {
	return []byte(p.e164), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Stored numbers are only
// parsed, not re-validated: a number accepted once stays readable when the
// numbering metadata later changes.
func (p *PhoneNumber) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = PhoneNumber{}
		return nil
	}
	num, err := phonenumbers.Parse(string(text), "")
	if err != nil {
		return fmt.Errorf("%w: stored value %q: %v", ErrInvalidPhoneNumber, text, err)
	}
	*p = PhoneNumber{e164: phonenumbers.Format(num, phonenumbers.E164)}
	return nil
}
