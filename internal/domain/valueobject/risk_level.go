package valueobject

import "fmt"

// RiskLevel is an immutable value object representing the risk classification
// of a phone number analysis.
type RiskLevel struct {
	value string
}

var (
	RiskLevelMinimal  = RiskLevel{value: "MINIMAL"}
	RiskLevelLow      = RiskLevel{value: "LOW"}
	RiskLevelMedium   = RiskLevel{value: "MEDIUM"}
	RiskLevelHigh     = RiskLevel{value: "HIGH"}
	RiskLevelCritical = RiskLevel{value: "CRITICAL"}
)

// Thresholds are inclusive lower bounds on the composite score.
const (
	HighRiskThreshold   = 70.0
	MediumRiskThreshold = 40.0
	LowRiskThreshold    = 20.0
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "MINIMAL":
		return RiskLevelMinimal, nil
	case "LOW":
		return RiskLevelLow, nil
	case "MEDIUM":
		return RiskLevelMedium, nil
	case "HIGH":
		return RiskLevelHigh, nil
	case "CRITICAL":
		return RiskLevelCritical, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromScore maps a composite score (0-100) onto a risk level.
// CRITICAL is part of the vocabulary but has no threshold of its own.
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskLevelHigh
	case score >= MediumRiskThreshold:
		return RiskLevelMedium
	case score >= LowRiskThreshold:
		return RiskLevelLow
	default:
		return RiskLevelMinimal
	}
}

// AllRiskLevels returns every level, lowest first.
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelMinimal,
		RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
		RiskLevelCritical,
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// Rank orders levels from MINIMAL (0) to CRITICAL (4). Unset levels rank -1.
func (r RiskLevel) Rank() int {
	switch r.value {
	case "MINIMAL":
		return 0
	case "LOW":
		return 1
	case "MEDIUM":
		return 2
	case "HIGH":
		return 3
	case "CRITICAL":
		return 4
	default:
		return -1
	}
}

// AtLeast reports whether r is as severe as other or more.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.Rank() >= other.Rank()
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}

// MarshalText implements encoding.TextMarshaler.
func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RiskLevel) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RiskLevel{}
		return nil
	}
	level, err := RiskLevelFromString(string(text))
	if err != nil {
		return err
	}
	*r = level
	return nil
}
