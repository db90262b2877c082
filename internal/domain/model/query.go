package model

import (
	"github.com/shopspring/decimal"

	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// SearchCriteria filters stored analyses. Zero fields match everything.
type SearchCriteria struct {
	PhoneContains string
	RiskLevel     valueobject.RiskLevel
	Limit         int
}

// Statistics summarizes the stored analyses.
type Statistics struct {
	ByLevel      map[string]int
	Total        int
	AverageScore float64
}

// AverageScore is sum/count rounded to two decimals, or 0 with no analyses.
func AverageScore(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	avg, _ := decimal.NewFromFloat(sum).Div(decimal.NewFromInt(int64(count))).Round(2).Float64()
	return avg
}
