package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/internal/application/dto"
	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/service"
)

// GetAnalysis is the use case for retrieving a stored analysis.
type GetAnalysis struct {
	repo port.AnalysisRepository
}

// NewGetAnalysis creates a new GetAnalysis use case.
func NewGetAnalysis(repo port.AnalysisRepository) *GetAnalysis {
	return &GetAnalysis{repo: repo}
}

// Execute retrieves an analysis by ID.
func (uc *GetAnalysis) Execute(ctx context.Context, req dto.GetAnalysisRequest) (dto.AnalysisResponse, error) {
	analysis, err := findAnalysis(ctx, uc.repo, req.AnalysisID)
	if err != nil {
		return dto.AnalysisResponse{}, err
	}
	return dto.FromModel(analysis), nil
}

// ScoreBreakdown is the use case for explaining a stored score.
type ScoreBreakdown struct {
	repo   port.AnalysisRepository
	scorer *service.RiskScorer
}

// NewScoreBreakdown creates a new ScoreBreakdown use case.
func NewScoreBreakdown(repo port.AnalysisRepository, scorer *service.RiskScorer) *ScoreBreakdown {
	return &ScoreBreakdown{repo: repo, scorer: scorer}
}

// Execute recomputes the category scores and factor attribution of an analysis.
func (uc *ScoreBreakdown) Execute(ctx context.Context, req dto.GetAnalysisRequest) (dto.BreakdownResponse, error) {
	analysis, err := findAnalysis(ctx, uc.repo, req.AnalysisID)
	if err != nil {
		return dto.BreakdownResponse{}, err
	}
	return dto.BreakdownResponse{
		ScoreBreakdown: uc.scorer.Breakdown(analysis),
		AnalysisID:     analysis.ID(),
		PhoneNumber:    analysis.PhoneNumber().String(),
	}, nil
}

// GenerateReport is the use case for building the analyst report.
type GenerateReport struct {
	repo port.AnalysisRepository
	now  func() time.Time
}

// NewGenerateReport creates a new GenerateReport use case.
func NewGenerateReport(repo port.AnalysisRepository, now func() time.Time) *GenerateReport {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &GenerateReport{repo: repo, now: now}
}

// Execute builds the report of a stored analysis.
func (uc *GenerateReport) Execute(ctx context.Context, req dto.GetAnalysisRequest) (dto.ReportResponse, error) {
	analysis, err := findAnalysis(ctx, uc.repo, req.AnalysisID)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	return service.BuildReport(analysis, uc.now()), nil
}

// DeleteAnalysis is the use case for removing a stored analysis.
type DeleteAnalysis struct {
	repo port.AnalysisRepository
}

// NewDeleteAnalysis creates a new DeleteAnalysis use case.
func NewDeleteAnalysis(repo port.AnalysisRepository) *DeleteAnalysis {
	return &DeleteAnalysis{repo: repo}
}

// Execute deletes an analysis by ID.
func (uc *DeleteAnalysis) Execute(ctx context.Context, req dto.GetAnalysisRequest) (dto.DeleteResponse, error) {
	if req.AnalysisID == uuid.Nil {
		return dto.DeleteResponse{}, model.ErrAnalysisNotFound
	}
	if err := uc.repo.Delete(ctx, req.AnalysisID); err != nil {
		return dto.DeleteResponse{}, fmt.Errorf("failed to delete analysis: %w", err)
	}
	return dto.DeleteResponse{Message: "Analysis deleted successfully", ID: req.AnalysisID}, nil
}

func findAnalysis(ctx context.Context, repo port.AnalysisRepository, id uuid.UUID) (*model.PhoneAnalysis, error) {
	if id == uuid.Nil {
		return nil, model.ErrAnalysisNotFound
	}
	analysis, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	if analysis == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrAnalysisNotFound, id)
	}
	return analysis, nil
}
