package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phonerisk/phonerisk/internal/application/dto"
	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// DefaultFreshnessWindow is how long a stored analysis is served instead of
// running the pipeline again.
const DefaultFreshnessWindow = 24 * time.Hour

// Analyzer runs the evidence pipeline. service.Aggregator implements it.
type Analyzer interface {
	Aggregate(ctx context.Context, phone valueobject.PhoneNumber, deepScan bool) (*model.PhoneAnalysis, error)
}

// AnalyzePhone is the use case for analyzing a phone number, reusing a fresh
// stored analysis unless a deep scan is requested.
type AnalyzePhone struct {
	repo      port.AnalysisRepository
	publisher port.EventPublisher
	analyzer  Analyzer
	metrics   port.MetricsRecorder
	logger    *slog.Logger
	now       func() time.Time
	window    time.Duration
}

// AnalyzeOption configures AnalyzePhone.
type AnalyzeOption func(*AnalyzePhone)

// WithFreshnessWindow overrides DefaultFreshnessWindow.
func WithFreshnessWindow(d time.Duration) AnalyzeOption {
	return func(uc *AnalyzePhone) {
		if d > 0 {
			uc.window = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) AnalyzeOption {
	return func(uc *AnalyzePhone) { uc.now = now }
}

// WithMetrics records analysis counts and durations.
func WithMetrics(m port.MetricsRecorder) AnalyzeOption {
	return func(uc *AnalyzePhone) { uc.metrics = m }
}

// NewAnalyzePhone creates a new AnalyzePhone use case. publisher may be nil
// when event publishing is disabled.
func NewAnalyzePhone(
	repo port.AnalysisRepository,
	publisher port.EventPublisher,
	analyzer Analyzer,
	logger *slog.Logger,
	opts ...AnalyzeOption,
) *AnalyzePhone {
	uc := &AnalyzePhone{
		repo:      repo,
		publisher: publisher,
		analyzer:  analyzer,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		window:    DefaultFreshnessWindow,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute returns a fresh cached analysis or runs, persists and publishes a
// new one.
func (uc *AnalyzePhone) Execute(ctx context.Context, req dto.AnalyzeRequest) (dto.AnalyzeResponse, error) {
	// 1. Validate and canonicalize the number.
	if err := dto.Validate(req); err != nil {
		return dto.AnalyzeResponse{}, err
	}
	phone, err := valueobject.NewPhoneNumber(req.PhoneNumber)
	if err != nil {
		return dto.AnalyzeResponse{}, err
	}

	// 2. Serve a fresh analysis unless a deep scan was requested.
	if !req.DeepScan {
		since := uc.now().Add(-uc.window)
		recent, err := uc.repo.FindLatestByPhone(ctx, phone.String(), since)
		if err != nil {
			return dto.AnalyzeResponse{}, fmt.Errorf("failed to look up recent analysis: %w", err)
		}
		if recent != nil {
			uc.logger.InfoContext(ctx, "serving cached analysis",
				slog.String("analysis_id", recent.ID().String()),
				slog.String("phone_number", phone.String()),
			)
			uc.record(ctx, recent, true)
			return dto.AnalyzeResponse{
				Message:  dto.MessageUsingCached,
				Analysis: dto.FromModel(recent),
				Cached:   true,
			}, nil
		}
	}

	// 3. Run the pipeline. Once started it runs to completion: a caller
	// that goes away only discards the result, and providers are bounded by
	// their own timeouts.
	ctx = context.WithoutCancel(ctx)
	analysis, err := uc.analyzer.Aggregate(ctx, phone, req.DeepScan)
	if err != nil {
		return dto.AnalyzeResponse{}, fmt.Errorf("failed to analyze phone number: %w", err)
	}

	// 4. Persist the analysis.
	if err := uc.repo.Save(ctx, analysis); err != nil {
		return dto.AnalyzeResponse{}, fmt.Errorf("failed to save analysis: %w", err)
	}

	// 5. Publish domain events.
	evts := analysis.DomainEvents()
	if uc.publisher != nil && len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			return dto.AnalyzeResponse{}, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	uc.record(ctx, analysis, false)
	uc.logger.InfoContext(ctx, "phone analysis completed",
		slog.String("analysis_id", analysis.ID().String()),
		slog.String("phone_number", phone.String()),
		slog.String("risk_level", analysis.RiskLevel().String()),
		slog.Float64("risk_score", analysis.RiskScore()),
		slog.Int("step_errors", len(analysis.StepErrors())),
		slog.Duration("duration", analysis.Duration()),
	)

	return dto.AnalyzeResponse{
		Message:  dto.MessageAnalysisCompleted,
		Analysis: dto.FromModel(analysis),
	}, nil
}

func (uc *AnalyzePhone) record(ctx context.Context, a *model.PhoneAnalysis, cached bool) {
	if uc.metrics == nil {
		return
	}
	var d time.Duration
	if !cached {
		d = a.Duration()
	}
	uc.metrics.RecordAnalysis(ctx, a.RiskLevel().String(), cached, d)
}
