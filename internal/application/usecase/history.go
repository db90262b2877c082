package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/phonerisk/phonerisk/internal/application/dto"
	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// ListHistory is the use case for paging through stored analyses.
type ListHistory struct {
	repo port.AnalysisRepository
}

// NewListHistory creates a new ListHistory use case.
func NewListHistory(repo port.AnalysisRepository) *ListHistory {
	return &ListHistory{repo: repo}
}

// Execute returns one page of analyses, newest first.
func (uc *ListHistory) Execute(ctx context.Context, req dto.HistoryRequest) (dto.HistoryResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.HistoryResponse{}, err
	}
	req = req.Normalize()

	offset := (req.Page - 1) * req.PerPage
	analyses, total, err := uc.repo.List(ctx, req.PerPage, offset)
	if err != nil {
		return dto.HistoryResponse{}, fmt.Errorf("failed to list analyses: %w", err)
	}

	return dto.HistoryResponse{
		Analyses:    dto.FromModels(analyses),
		Total:       total,
		Pages:       (total + req.PerPage - 1) / req.PerPage,
		CurrentPage: req.Page,
		PerPage:     req.PerPage,
	}, nil
}

// SearchAnalyses is the use case for filtering stored analyses.
type SearchAnalyses struct {
	repo port.AnalysisRepository
}

// NewSearchAnalyses creates a new SearchAnalyses use case.
func NewSearchAnalyses(repo port.AnalysisRepository) *SearchAnalyses {
	return &SearchAnalyses{repo: repo}
}

// Execute searches by phone substring and risk level.
func (uc *SearchAnalyses) Execute(ctx context.Context, req dto.SearchRequest) (dto.SearchResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.SearchResponse{}, err
	}

	criteria := model.SearchCriteria{
		PhoneContains: strings.TrimSpace(req.PhoneNumber),
		Limit:         dto.DefaultSearchLimit,
	}
	if req.RiskLevel != "" {
		level, err := valueobject.RiskLevelFromString(strings.ToUpper(req.RiskLevel))
		if err != nil {
			return dto.SearchResponse{}, fmt.Errorf("%w: %v", dto.ErrValidation, err)
		}
		criteria.RiskLevel = level
	}

	analyses, err := uc.repo.Search(ctx, criteria)
	if err != nil {
		return dto.SearchResponse{}, fmt.Errorf("failed to search analyses: %w", err)
	}

	return dto.SearchResponse{
		Analyses: dto.FromModels(analyses),
		Count:    len(analyses),
	}, nil
}

// ClearHistory is the use case for removing every stored analysis.
type ClearHistory struct {
	repo port.AnalysisRepository
}

// NewClearHistory creates a new ClearHistory use case.
func NewClearHistory(repo port.AnalysisRepository) *ClearHistory {
	return &ClearHistory{repo: repo}
}

// Execute deletes all analyses.
func (uc *ClearHistory) Execute(ctx context.Context) (dto.ClearHistoryResponse, error) {
	n, err := uc.repo.DeleteAll(ctx)
	if err != nil {
		return dto.ClearHistoryResponse{}, fmt.Errorf("failed to clear history: %w", err)
	}
	return dto.ClearHistoryResponse{
		Message:      "All analysis history cleared successfully",
		DeletedCount: n,
	}, nil
}

// GetStatistics is the use case for summarizing stored analyses.
type GetStatistics struct {
	repo port.AnalysisRepository
}

// NewGetStatistics creates a new GetStatistics use case.
func NewGetStatistics(repo port.AnalysisRepository) *GetStatistics {
	return &GetStatistics{repo: repo}
}

// Execute returns totals and the per-level distribution.
func (uc *GetStatistics) Execute(ctx context.Context) (dto.StatisticsResponse, error) {
	stats, err := uc.repo.Statistics(ctx)
	if err != nil {
		return dto.StatisticsResponse{}, fmt.Errorf("failed to compute statistics: %w", err)
	}

	dist := make(map[string]int, len(valueobject.AllRiskLevels()))
	for _, level := range valueobject.AllRiskLevels() {
		dist[strings.ToLower(level.String())] = stats.ByLevel[level.String()]
	}

	return dto.StatisticsResponse{
		TotalAnalyses:    stats.Total,
		HighRiskCount:    stats.ByLevel[valueobject.RiskLevelHigh.String()],
		MediumRiskCount:  stats.ByLevel[valueobject.RiskLevelMedium.String()],
		LowRiskCount:     stats.ByLevel[valueobject.RiskLevelLow.String()],
		AverageRiskScore: stats.AverageScore,
		RiskDistribution: dist,
	}, nil
}
