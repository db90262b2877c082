package valueobject

import (
	"fmt"
	"strings"
)

// Severity grades a single risk factor.
type Severity struct {
	value string
}

var (
	SeverityLow      = Severity{"LOW"}
	SeverityMedium   = Severity{"MEDIUM"}
	SeverityHigh     = Severity{"HIGH"}
	SeverityCritical = Severity{"CRITICAL"}
)

var validSeverities = map[string]Severity{
	"LOW":      SeverityLow,
	"MEDIUM":   SeverityMedium,
	"HIGH":     SeverityHigh,
	"CRITICAL": SeverityCritical,
}

// NewSeverity parses a severity, case-insensitively.
func NewSeverity(s string) (Severity, error) {
	sev, ok := validSeverities[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return Severity{}, fmt.Errorf("unknown severity: %q", s)
	}
	return sev, nil
}

// SeverityOrDefault parses s and falls back to def when s is empty or unknown.
func SeverityOrDefault(s string, def Severity) Severity {
	sev, err := NewSeverity(s)
	if err != nil {
		return def
	}
	return sev
}

// BaseScore is the attribution base used for score contributions.
// An unset severity scores like MEDIUM.
func (s Severity) BaseScore() float64 {
	switch s.value {
	case "CRITICAL":
		return 100
	case "HIGH":
		return 80
	case "MEDIUM":
		return 50
	case "LOW":
		return 25
	default:
		return 50
	}
}

func (s Severity) String() string { return s.value }

func (s Severity) IsZero() bool { return s.value == "" }

func (s Severity) Equal(other Severity) bool { return s.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = Severity{}
		return nil
	}
	sev, err := NewSeverity(string(text))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
