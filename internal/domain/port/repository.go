package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/pkg/events"
)

// AnalysisRepository defines the persistence port for phone analyses.
type AnalysisRepository interface {
	// Save persists a new analysis.
	Save(ctx context.Context, analysis *model.PhoneAnalysis) error

	// FindByID retrieves an analysis by its identifier. Returns
	// model.ErrAnalysisNotFound when it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.PhoneAnalysis, error)

	// FindLatestByPhone returns the most recent analysis of phone analyzed at
	// or after since, or nil when there is none.
	FindLatestByPhone(ctx context.Context, phone string, since time.Time) (*model.PhoneAnalysis, error)

	// List returns analyses newest first, plus the total count.
	List(ctx context.Context, limit, offset int) ([]*model.PhoneAnalysis, int, error)

	// Search returns analyses matching the criteria, newest first.
	Search(ctx context.Context, criteria model.SearchCriteria) ([]*model.PhoneAnalysis, error)

	// Delete removes one analysis. Returns model.ErrAnalysisNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every analysis and returns how many were removed.
	DeleteAll(ctx context.Context) (int, error)

	// Statistics summarizes stored analyses.
	Statistics(ctx context.Context) (model.Statistics, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// MetricsRecorder receives analysis telemetry.
type MetricsRecorder interface {
	RecordAnalysis(ctx context.Context, riskLevel string, cached bool, duration time.Duration)
	RecordStepFailure(ctx context.Context, step string)
}
