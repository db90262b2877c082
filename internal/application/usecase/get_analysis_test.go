package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/application/dto"
	"github.com/phonerisk/phonerisk/internal/application/usecase"
	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/service"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

func storedAnalysis(t *testing.T, level valueobject.RiskLevel, score float64) *model.PhoneAnalysis {
	t.Helper()
	a, err := newAnalysis(valueobject.MustPhoneNumber("+16502530000"), score, level, testNow, false)
	require.NoError(t, err)
	return a
}

func TestGetAnalysis_Execute(t *testing.T) {
	t.Run("returns the stored analysis", func(t *testing.T) {
		a := storedAnalysis(t, valueobject.RiskLevelLow, 22)
		repo := &mockAnalysisRepository{saved: []*model.PhoneAnalysis{a}}

		resp, err := usecase.NewGetAnalysis(repo).Execute(context.Background(), dto.GetAnalysisRequest{AnalysisID: a.ID()})

		require.NoError(t, err)
		assert.Equal(t, a.ID(), resp.ID)
		assert.Equal(t, "LOW", resp.RiskLevel)
		assert.Equal(t, 1.5, resp.AnalysisDuration)
		assert.NotNil(t, resp.RiskFactors)
		assert.NotNil(t, resp.SpamDetails)
		assert.NotNil(t, resp.StepErrors)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := usecase.NewGetAnalysis(&mockAnalysisRepository{}).
			Execute(context.Background(), dto.GetAnalysisRequest{AnalysisID: uuid.New()})
		assert.ErrorIs(t, err, model.ErrAnalysisNotFound)
	})

	t.Run("nil id is not found", func(t *testing.T) {
		_, err := usecase.NewGetAnalysis(&mockAnalysisRepository{}).
			Execute(context.Background(), dto.GetAnalysisRequest{})
		assert.ErrorIs(t, err, model.ErrAnalysisNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := &mockAnalysisRepository{
			findByIDFunc: func(context.Context, uuid.UUID) (*model.PhoneAnalysis, error) {
				return nil, fmt.Errorf("connection reset")
			},
		}
		_, err := usecase.NewGetAnalysis(repo).Execute(context.Background(), dto.GetAnalysisRequest{AnalysisID: uuid.New()})
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrAnalysisNotFound)
		assert.Contains(t, err.Error(), "failed to find analysis")
	})
}

func TestScoreBreakdown_Execute(t *testing.T) {
	a := storedAnalysis(t, valueobject.RiskLevelMinimal, 3)
	repo := &mockAnalysisRepository{saved: []*model.PhoneAnalysis{a}}

	resp, err := usecase.NewScoreBreakdown(repo, service.NewRiskScorer()).
		Execute(context.Background(), dto.GetAnalysisRequest{AnalysisID: a.ID()})

	require.NoError(t, err)
	assert.Equal(t, a.ID(), resp.AnalysisID)
	assert.Equal(t, "+16502530000", resp.PhoneNumber)
	assert.Equal(t, 3.0, resp.TotalScore)
	assert.Equal(t, "MINIMAL", resp.RiskLevel)
	assert.Equal(t, 30.0, resp.CategoryScores.AccountAge)
	assert.Equal(t, service.DefaultWeights(), resp.Weights)
	assert.Empty(t, resp.FactorContributions)
}

func TestGenerateReport_Execute(t *testing.T) {
	a := storedAnalysis(t, valueobject.RiskLevelMedium, 45)
	repo := &mockAnalysisRepository{saved: []*model.PhoneAnalysis{a}}
	generated := testNow.Add(time.Hour)

	resp, err := usecase.NewGenerateReport(repo, func() time.Time { return generated }).
		Execute(context.Background(), dto.GetAnalysisRequest{AnalysisID: a.ID()})

	require.NoError(t, err)
	assert.Equal(t, generated, resp.Metadata.GeneratedAt)
	assert.Equal(t, "Suspicious Activity", resp.RiskAssessment.ThreatCategory)
	assert.Equal(t, "1.50s", resp.PhoneInformation.AnalysisDuration)
	assert.Equal(t, "Exercise caution when engaging with this number", resp.Recommendations[0])
}

func TestDeleteAnalysis_Execute(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		var deleted uuid.UUID
		repo := &mockAnalysisRepository{
			deleteFunc: func(_ context.Context, id uuid.UUID) error {
				deleted = id
				return nil
			},
		}
		id := uuid.New()

		resp, err := usecase.NewDeleteAnalysis(repo).Execute(context.Background(), dto.GetAnalysisRequest{AnalysisID: id})

		require.NoError(t, err)
		assert.Equal(t, id, deleted)
		assert.Equal(t, id, resp.ID)
	})

	t.Run("missing analysis", func(t *testing.T) {
		repo := &mockAnalysisRepository{
			deleteFunc: func(context.Context, uuid.UUID) error { return model.ErrAnalysisNotFound },
		}
		_, err := usecase.NewDeleteAnalysis(repo).Execute(context.Background(), dto.GetAnalysisRequest{AnalysisID: uuid.New()})
		assert.ErrorIs(t, err, model.ErrAnalysisNotFound)
	})
}
