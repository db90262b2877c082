package dto

import (
	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/internal/domain/service"
)

// Paging defaults for history listings.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// DefaultSearchLimit caps the number of search results.
const DefaultSearchLimit = 50

// GetAnalysisRequest identifies one stored analysis.
type GetAnalysisRequest struct {
	AnalysisID uuid.UUID `json:"analysis_id"`
}

// HistoryRequest selects one page of history. Zero values take the defaults
// and PerPage is clamped to MaxPerPage.
type HistoryRequest struct {
	Page    int `json:"page" validate:"gte=0"`
	PerPage int `json:"per_page" validate:"gte=0"`
}

// Normalize applies paging defaults.
func (r HistoryRequest) Normalize() HistoryRequest {
	if r.Page <= 0 {
		r.Page = DefaultPage
	}
	if r.PerPage <= 0 {
		r.PerPage = DefaultPerPage
	}
	if r.PerPage > MaxPerPage {
		r.PerPage = MaxPerPage
	}
	return r
}

// HistoryResponse is one page of analyses, newest first.
type HistoryResponse struct {
	Analyses    []AnalysisResponse `json:"analyses"`
	Total       int                `json:"total"`
	Pages       int                `json:"pages"`
	CurrentPage int                `json:"current_page"`
	PerPage     int                `json:"per_page"`
}

// SearchRequest filters analyses by phone substring and level.
type SearchRequest struct {
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	RiskLevel   string `json:"risk_level" validate:"omitempty,risklevel"`
}

// SearchResponse lists matching analyses.
type SearchResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
	Count    int                `json:"count"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

// ClearHistoryResponse reports how many analyses were removed.
type ClearHistoryResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

// StatisticsResponse summarizes stored analyses.
type StatisticsResponse struct {
	RiskDistribution map[string]int `json:"risk_distribution"`
	TotalAnalyses    int            `json:"total_analyses"`
	HighRiskCount    int            `json:"high_risk_count"`
	MediumRiskCount  int            `json:"medium_risk_count"`
	LowRiskCount     int            `json:"low_risk_count"`
	AverageRiskScore float64        `json:"average_risk_score"`
}

// BreakdownResponse explains a stored score.
type BreakdownResponse struct {
	service.ScoreBreakdown
	AnalysisID  uuid.UUID `json:"analysis_id"`
	PhoneNumber string    `json:"phone_number"`
}

// ReportResponse is the generated analyst report.
type ReportResponse = service.Report
