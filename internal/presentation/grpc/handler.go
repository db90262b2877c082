package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/phonerisk/phonerisk/internal/application/dto"
	"github.com/phonerisk/phonerisk/internal/application/usecase"
	"github.com/phonerisk/phonerisk/internal/domain/model"
)

// Compile-time assertion that PhoneRiskHandler implements PhoneRiskServiceServer.
var _ PhoneRiskServiceServer = (*PhoneRiskHandler)(nil)

// PhoneRiskHandler implements the gRPC PhoneRiskServiceServer interface.
type PhoneRiskHandler struct {
	UnimplementedPhoneRiskServiceServer
	analyze   *usecase.AnalyzePhone
	get       *usecase.GetAnalysis
	breakdown *usecase.ScoreBreakdown
	logger    *slog.Logger
}

// NewPhoneRiskHandler creates a new gRPC handler.
func NewPhoneRiskHandler(
	analyze *usecase.AnalyzePhone,
	get *usecase.GetAnalysis,
	breakdown *usecase.ScoreBreakdown,
	logger *slog.Logger,
) *PhoneRiskHandler {
	return &PhoneRiskHandler{
		analyze:   analyze,
		get:       get,
		breakdown: breakdown,
		logger:    logger,
	}
}

// Proto-aligned request/response message types.

// AnalyzeRequest represents the proto AnalyzeRequest message.
type AnalyzeRequest struct {
	PhoneNumber string `json:"phone_number"`
	DeepScan    bool   `json:"deep_scan"`
}

// RiskFactorMsg represents the proto RiskFactor message.
type RiskFactorMsg struct {
	FactorType        string  `json:"factor_type"`
	Category          string  `json:"category"`
	Severity          string  `json:"severity"`
	Description       string  `json:"description"`
	Source            string  `json:"source"`
	Weight            float64 `json:"weight"`
	ScoreContribution float64 `json:"score_contribution"`
}

// AnalysisMsg represents the proto PhoneAnalysis message.
type AnalysisMsg struct {
	ID                 string            `json:"id"`
	PhoneNumber        string            `json:"phone_number"`
	CountryCode        string            `json:"country_code"`
	Carrier            string            `json:"carrier"`
	LineType           string            `json:"line_type"`
	Location           string            `json:"location"`
	RiskLevel          string            `json:"risk_level"`
	AnalysisDate       string            `json:"analysis_date"`
	Errors             map[string]string `json:"errors"`
	DataSourcesUsed    []string          `json:"data_sources_used"`
	RiskFactors        []RiskFactorMsg   `json:"risk_factors"`
	RiskScore          float64           `json:"risk_score"`
	AnalysisDuration   float64           `json:"analysis_duration"`
	SpamReportsCount   int32             `json:"spam_reports_count"`
	FraudMentionsCount int32             `json:"fraud_mentions_count"`
	DeepScan           bool              `json:"deep_scan"`
}

// AnalyzeResponse represents the proto AnalyzeResponse message.
type AnalyzeResponse struct {
	Analysis *AnalysisMsg `json:"analysis"`
	Message  string       `json:"message"`
	Cached   bool         `json:"cached"`
}

// GetAnalysisRequest represents the proto GetAnalysisRequest message.
type GetAnalysisRequest struct {
	ID string `json:"id"`
}

// GetAnalysisResponse represents the proto GetAnalysisResponse message.
type GetAnalysisResponse struct {
	Analysis *AnalysisMsg `json:"analysis"`
}

// FactorContributionMsg represents the proto FactorContribution message.
type FactorContributionMsg struct {
	Factor       string  `json:"factor"`
	Contribution float64 `json:"contribution"`
}

// ScoreBreakdownResponse represents the proto ScoreBreakdownResponse message.
type ScoreBreakdownResponse struct {
	AnalysisID          string                  `json:"analysis_id"`
	PhoneNumber         string                  `json:"phone_number"`
	RiskLevel           string                  `json:"risk_level"`
	CategoryScores      map[string]float64      `json:"category_scores"`
	Weights             map[string]float64      `json:"weights"`
	FactorContributions []FactorContributionMsg `json:"factor_contributions"`
	TotalScore          float64                 `json:"total_score"`
}

// Analyze runs or reuses an analysis.
func (h *PhoneRiskHandler) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	resp, err := h.analyze.Execute(ctx, dto.AnalyzeRequest{
		PhoneNumber: req.PhoneNumber,
		DeepScan:    req.DeepScan,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "analyze", err)
	}

	return &AnalyzeResponse{
		Analysis: toAnalysisMsg(resp.Analysis),
		Message:  resp.Message,
		Cached:   resp.Cached,
	}, nil
}

// GetAnalysis returns a stored analysis.
func (h *PhoneRiskHandler) GetAnalysis(ctx context.Context, req *GetAnalysisRequest) (*GetAnalysisResponse, error) {
	id, err := parseID(req)
	if err != nil {
		return nil, err
	}

	resp, err := h.get.Execute(ctx, dto.GetAnalysisRequest{AnalysisID: id})
	if err != nil {
		return nil, h.toStatus(ctx, "get analysis", err)
	}
	return &GetAnalysisResponse{Analysis: toAnalysisMsg(resp)}, nil
}

// GetScoreBreakdown explains the score of a stored analysis.
func (h *PhoneRiskHandler) GetScoreBreakdown(ctx context.Context, req *GetAnalysisRequest) (*ScoreBreakdownResponse, error) {
	id, err := parseID(req)
	if err != nil {
		return nil, err
	}

	resp, err := h.breakdown.Execute(ctx, dto.GetAnalysisRequest{AnalysisID: id})
	if err != nil {
		return nil, h.toStatus(ctx, "score breakdown", err)
	}

	contributions := make([]FactorContributionMsg, 0, len(resp.FactorContributions))
	for _, fc := range resp.FactorContributions {
		contributions = append(contributions, FactorContributionMsg{Factor: fc.Factor, Contribution: fc.Contribution})
	}
	cs, w := resp.CategoryScores, resp.Weights
	return &ScoreBreakdownResponse{
		AnalysisID:  resp.AnalysisID.String(),
		PhoneNumber: resp.PhoneNumber,
		RiskLevel:   resp.RiskLevel,
		TotalScore:  resp.TotalScore,
		CategoryScores: map[string]float64{
			"social_media": cs.SocialMedia,
			"spam_reports": cs.SpamReports,
			"fraud_forums": cs.FraudForums,
			"account_age":  cs.AccountAge,
			"geographic":   cs.Geographic,
		},
		Weights: map[string]float64{
			"social_media": w.SocialMedia,
			"spam_reports": w.SpamReports,
			"fraud_forums": w.FraudForums,
			"account_age":  w.AccountAge,
			"geographic":   w.Geographic,
		},
		FactorContributions: contributions,
	}, nil
}

func parseID(req *GetAnalysisRequest) (uuid.UUID, error) {
	if req == nil {
		return uuid.Nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}
	return id, nil
}

// toStatus maps application errors to gRPC status codes. Internal errors
// are logged and returned without details.
func (h *PhoneRiskHandler) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, dto.ErrValidation), errors.Is(err, model.ErrInvalidPhoneNumber):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrAnalysisNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, op+" failed", slog.String("error", err.Error()))
		return status.Error(codes.Internal, op+" failed")
	}
}

func toAnalysisMsg(a dto.AnalysisResponse) *AnalysisMsg {
	factors := make([]RiskFactorMsg, 0, len(a.RiskFactors))
	for _, f := range a.RiskFactors {
		factors = append(factors, RiskFactorMsg{
			FactorType:        f.FactorType,
			Category:          f.Category.String(),
			Severity:          f.Severity.String(),
			Description:       f.Description,
			Source:            f.Source,
			Weight:            f.Weight,
			ScoreContribution: f.ScoreContribution,
		})
	}

	return &AnalysisMsg{
		ID:                 a.ID.String(),
		PhoneNumber:        a.PhoneNumber,
		CountryCode:        a.CountryCode,
		Carrier:            a.Carrier,
		LineType:           a.LineType,
		Location:           a.Location,
		RiskLevel:          a.RiskLevel,
		RiskScore:          a.RiskScore,
		AnalysisDate:       a.AnalysisDate.Format(time.RFC3339),
		AnalysisDuration:   a.AnalysisDuration,
		SpamReportsCount:   int32(a.SpamReportsCount),
		FraudMentionsCount: int32(a.FraudMentionsCount),
		DataSourcesUsed:    a.DataSourcesUsed,
		Errors:             a.StepErrors,
		RiskFactors:        factors,
		DeepScan:           a.DeepScan,
	}
}
