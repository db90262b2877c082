package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/phonerisk/phonerisk/internal/domain/port"
)

var _ port.MetricsRecorder = (*Recorder)(nil)

// Recorder publishes analysis telemetry through an OpenTelemetry meter.
type Recorder struct {
	analyses     metric.Int64Counter
	stepFailures metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewRecorder registers the phonerisk instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	analyses, err := meter.Int64Counter(
		"phonerisk_analyses",
		metric.WithDescription("Analyses served, by risk level and cache use"),
	)
	if err != nil {
		return nil, fmt.Errorf("create analyses counter: %w", err)
	}

	stepFailures, err := meter.Int64Counter(
		"phonerisk_step_failures",
		metric.WithDescription("Pipeline steps that recorded an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("create step failures counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"phonerisk_analysis_duration",
		metric.WithDescription("Wall time of fresh analyses"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &Recorder{analyses: analyses, stepFailures: stepFailures, duration: duration}, nil
}

// RecordAnalysis counts one served analysis. Duration is only observed for
// fresh runs.
func (r *Recorder) RecordAnalysis(ctx context.Context, riskLevel string, cached bool, d time.Duration) {
	r.analyses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("risk_level", strings.ToLower(riskLevel)),
		attribute.Bool("cached", cached),
	))
	if !cached {
		r.duration.Record(ctx, d.Seconds())
	}
}

// RecordStepFailure counts one failed pipeline step.
func (r *Recorder) RecordStepFailure(ctx context.Context, step string) {
	r.stepFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("step", step)))
}
