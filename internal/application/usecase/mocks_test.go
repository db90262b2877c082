package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
	"github.com/phonerisk/phonerisk/pkg/events"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock implementations ---

type mockAnalysisRepository struct {
	saved []*model.PhoneAnalysis

	saveFunc       func(ctx context.Context, a *model.PhoneAnalysis) error
	findByIDFunc   func(ctx context.Context, id uuid.UUID) (*model.PhoneAnalysis, error)
	findLatestFunc func(ctx context.Context, phone string, since time.Time) (*model.PhoneAnalysis, error)
	listFunc       func(ctx context.Context, limit, offset int) ([]*model.PhoneAnalysis, int, error)
	searchFunc     func(ctx context.Context, c model.SearchCriteria) ([]*model.PhoneAnalysis, error)
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
	deleteAllFunc  func(ctx context.Context) (int, error)
	statsFunc      func(ctx context.Context) (model.Statistics, error)
}

func (m *mockAnalysisRepository) Save(ctx context.Context, a *model.PhoneAnalysis) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PhoneAnalysis, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	for _, a := range m.saved {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, model.ErrAnalysisNotFound
}

func (m *mockAnalysisRepository) FindLatestByPhone(ctx context.Context, phone string, since time.Time) (*model.PhoneAnalysis, error) {
	if m.findLatestFunc != nil {
		return m.findLatestFunc(ctx, phone, since)
	}
	for i := len(m.saved) - 1; i >= 0; i-- {
		a := m.saved[i]
		if a.PhoneNumber().String() == phone && !a.AnalyzedAt().Before(since) {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAnalysisRepository) List(ctx context.Context, limit, offset int) ([]*model.PhoneAnalysis, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockAnalysisRepository) Search(ctx context.Context, c model.SearchCriteria) ([]*model.PhoneAnalysis, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, c)
	}
	return nil, nil
}

func (m *mockAnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockAnalysisRepository) DeleteAll(ctx context.Context) (int, error) {
	if m.deleteAllFunc != nil {
		return m.deleteAllFunc(ctx)
	}
	n := len(m.saved)
	m.saved = nil
	return n, nil
}

func (m *mockAnalysisRepository) Statistics(ctx context.Context) (model.Statistics, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return model.Statistics{ByLevel: map[string]int{}}, nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockAnalyzer struct {
	calls         atomic.Int32
	lastDeepScan  bool
	aggregateFunc func(ctx context.Context, phone valueobject.PhoneNumber, deepScan bool) (*model.PhoneAnalysis, error)
}

func (m *mockAnalyzer) Aggregate(ctx context.Context, phone valueobject.PhoneNumber, deepScan bool) (*model.PhoneAnalysis, error) {
	m.calls.Add(1)
	m.lastDeepScan = deepScan
	if m.aggregateFunc != nil {
		return m.aggregateFunc(ctx, phone, deepScan)
	}
	return newAnalysis(phone, 12, valueobject.RiskLevelMinimal, testNow, deepScan)
}

type analysisRecord struct {
	level  string
	cached bool
}

type mockMetrics struct {
	analyses []analysisRecord
}

func (m *mockMetrics) RecordAnalysis(_ context.Context, level string, cached bool, _ time.Duration) {
	m.analyses = append(m.analyses, analysisRecord{level: level, cached: cached})
}

func (m *mockMetrics) RecordStepFailure(context.Context, string) {}

// --- Fixtures ---

func newAnalysis(phone valueobject.PhoneNumber, score float64, level valueobject.RiskLevel, at time.Time, deepScan bool) (*model.PhoneAnalysis, error) {
	w := model.NewWorkingResult(phone, deepScan)
	w.Identity.CountryCode = "+1"
	w.Identity.Location = "Mountain View, CA"
	w.UseSources("phonenumbers_library")
	return model.NewPhoneAnalysis(w, score, level, at, 1500*time.Millisecond)
}
