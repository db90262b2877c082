package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

const tracerName = "github.com/phonerisk/phonerisk/internal/domain/service"

// applyFunc merges fetched evidence into the working result. A returned
// error becomes the step's annotation; whatever was merged before it stays.
type applyFunc func(w *model.WorkingResult, at time.Time) error

// step is one named stage of the pipeline. fetch performs the provider
// calls and must not touch the working result.
type step struct {
	name     string
	errorKey string
	fetch    func(ctx context.Context, phone valueobject.PhoneNumber) applyFunc
}

// Aggregator runs the evidence pipeline for one number and hands the result
// to the scorer. Runs share no state.
type Aggregator struct {
	providers port.ProviderSet
	scorer    Scorer
	metrics   port.MetricsRecorder
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	steps     []step
	parallel  bool
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithParallelFetch runs the provider lookups concurrently. Evidence is still
// merged in the fixed step order, so results match a sequential run.
func WithParallelFetch(enabled bool) AggregatorOption {
	return func(a *Aggregator) { a.parallel = enabled }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) { a.now = now }
}

// WithTracer overrides the tracer used for step spans.
func WithTracer(t trace.Tracer) AggregatorOption {
	return func(a *Aggregator) { a.tracer = t }
}

// WithMetrics records step failures.
func WithMetrics(m port.MetricsRecorder) AggregatorOption {
	return func(a *Aggregator) { a.metrics = m }
}

// NewAggregator wires the pipeline over the configured providers.
func NewAggregator(providers port.ProviderSet, scorer Scorer, logger *slog.Logger, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		providers: providers,
		scorer:    scorer,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}

	a.steps = []step{
		{name: "basic_info", errorKey: model.StepErrorBasicInfo, fetch: a.fetchBasicInfo},
		{name: "rich_metadata", errorKey: model.StepErrorRichMetadata, fetch: a.fetchRichMetadata},
		{name: "social_media", errorKey: model.StepErrorSocialMedia, fetch: a.fetchSocial},
		{name: "spam_check", errorKey: model.StepErrorSpamCheck, fetch: a.fetchSpam},
		{name: "fraud_scan", errorKey: model.StepErrorFraudScan, fetch: a.fetchFraudForum},
		{name: "messaging_apps", errorKey: model.StepErrorMessagingApps, fetch: a.fetchMessaging},
	}
	return a
}

// Aggregate runs every step, scores the accumulated evidence and finalizes
// the analysis. Step failures are recorded on the result; only finalization
// errors are returned.
func (a *Aggregator) Aggregate(ctx context.Context, phone valueobject.PhoneNumber, deepScan bool) (*model.PhoneAnalysis, error) {
	ctx, span := a.tracer.Start(ctx, "phonerisk.aggregate",
		trace.WithAttributes(attribute.Bool("deep_scan", deepScan)))
	defer span.End()

	started := a.now()
	w := model.NewWorkingResult(phone, deepScan)

	// 1-6. Gather evidence.
	applies := a.fetchAll(ctx, phone)

	// Merge in the fixed step order.
	for i, s := range a.steps {
		if err := safeApply(applies[i], w, started); err != nil {
			a.stepFailed(ctx, w, s, err)
		}
	}

	// 7. Score and finalize.
	analysis, err := a.finalize(w, started)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to finalize analysis: %w", err)
	}

	span.SetAttributes(
		attribute.String("risk_level", analysis.RiskLevel().String()),
		attribute.Float64("risk_score", analysis.RiskScore()),
		attribute.Int("step_errors", len(w.StepErrors)),
	)
	return analysis, nil
}

func (a *Aggregator) fetchAll(ctx context.Context, phone valueobject.PhoneNumber) []applyFunc {
	applies := make([]applyFunc, len(a.steps))

	if !a.parallel {
		for i, s := range a.steps {
			applies[i] = a.runFetch(ctx, s, phone)
		}
		return applies
	}

	// Steps never report errors through the group; it only joins them.
	var g errgroup.Group
	for i, s := range a.steps {
		g.Go(func() error {
			applies[i] = a.runFetch(ctx, s, phone)
			return nil
		})
	}
	_ = g.Wait()
	return applies
}

// runFetch isolates a step's provider calls, converting panics into a
// failing apply.
func (a *Aggregator) runFetch(ctx context.Context, s step, phone valueobject.PhoneNumber) (apply applyFunc) {
	ctx, span := a.tracer.Start(ctx, "phonerisk.step."+s.name)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in %s: %v", s.name, r)
			span.SetStatus(codes.Error, err.Error())
			apply = func(*model.WorkingResult, time.Time) error { return err }
		}
	}()

	return s.fetch(ctx, phone)
}

func safeApply(apply applyFunc, w *model.WorkingResult, at time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while merging evidence: %v", r)
		}
	}()
	return apply(w, at)
}

func (a *Aggregator) stepFailed(ctx context.Context, w *model.WorkingResult, s step, err error) {
	w.RecordError(s.errorKey, err.Error())
	a.logger.WarnContext(ctx, "analysis step unavailable",
		slog.String("step", s.name),
		slog.String("phone_number", w.Identity.Number.String()),
		slog.String("reason", err.Error()),
	)
	if a.metrics != nil {
		a.metrics.RecordStepFailure(ctx, s.name)
	}
}

func (a *Aggregator) finalize(w *model.WorkingResult, started time.Time) (*model.PhoneAnalysis, error) {
	out := a.scorer.Score(ScoringInputFromWorking(w))

	for i, f := range w.RiskFactors {
		w.RiskFactors[i] = f.WithContribution(a.scorer.Contribution(f))
	}

	finished := a.now()
	return model.NewPhoneAnalysis(w, out.Score, out.Level, finished, finished.Sub(started))
}

// --- Steps ---

func (a *Aggregator) fetchBasicInfo(_ context.Context, phone valueobject.PhoneNumber) applyFunc {
	identity, err := DescribeNumber(phone)
	return func(w *model.WorkingResult, _ time.Time) error {
		if err != nil {
			return err
		}
		w.Identity = identity
		w.UseSources(PhoneNumbersLibrarySource)
		return nil
	}
}

func (a *Aggregator) fetchRichMetadata(ctx context.Context, phone valueobject.PhoneNumber) applyFunc {
	validity := lookup(ctx, a.providers.Validity, phone)
	fraud := lookup(ctx, a.providers.FraudScore, phone)

	return func(w *model.WorkingResult, at time.Time) error {
		v, vok := validity.outcome.Get()
		f, fok := fraud.outcome.Get()
		if !vok && !fok {
			return joinReasons(validity, fraud)
		}

		var fp *model.FraudScoreEvidence
		if fok {
			fp = &f
			w.UseSources(fraud.name)
		}
		var vp *model.ValidityEvidence
		if vok {
			vp = &v
			w.UseSources(validity.name)
		}

		meta := MergeRichMetadata(vp, fp, w.Identity.Timezones)
		w.RichMetadata = &meta

		factors, err := CarrierFactors(meta, at)
		if err != nil {
			return err
		}
		for _, rf := range factors {
			w.AddFactor(rf)
		}

		// Metadata built from one side is still reported as a partial failure.
		return joinReasons(validity, fraud)
	}
}

func (a *Aggregator) fetchSocial(ctx context.Context, phone valueobject.PhoneNumber) applyFunc {
	social := lookup(ctx, a.providers.Social, phone)

	return func(w *model.WorkingResult, at time.Time) error {
		ev, ok := social.outcome.Get()
		if !ok {
			return social.err()
		}
		w.SocialPresence = &ev
		w.UseSources(social.name)

		factors, err := SocialFactors(ev, at)
		if err != nil {
			return err
		}
		for _, rf := range factors {
			w.AddFactor(rf)
		}
		return nil
	}
}

func (a *Aggregator) fetchSpam(ctx context.Context, phone valueobject.PhoneNumber) applyFunc {
	spam := lookup(ctx, a.providers.Spam, phone)

	return func(w *model.WorkingResult, at time.Time) error {
		ev, ok := spam.outcome.Get()
		if !ok {
			return spam.err()
		}
		w.SpamReportsCount = max(ev.TotalReports, 0)
		if ev.Details != nil {
			w.SpamDetails = ev.Details
		}
		w.UseSources(ev.Sources...)

		factors, err := SpamFactors(ev, at)
		if err != nil {
			return err
		}
		for _, rf := range factors {
			w.AddFactor(rf)
		}
		return nil
	}
}

func (a *Aggregator) fetchFraudForum(ctx context.Context, phone valueobject.PhoneNumber) applyFunc {
	forum := lookup(ctx, a.providers.FraudForum, phone)

	return func(w *model.WorkingResult, at time.Time) error {
		ev, ok := forum.outcome.Get()
		if !ok {
			return forum.err()
		}
		w.FraudMentionsCount = max(ev.MentionsCount, 0)
		if ev.Mentions != nil {
			w.FraudDetails = ev.Mentions
		}
		w.UseSources(forum.name)

		factors, err := ForumFactors(ev, at)
		if err != nil {
			return err
		}
		for _, rf := range factors {
			w.AddFactor(rf)
		}
		return nil
	}
}

func (a *Aggregator) fetchMessaging(ctx context.Context, phone valueobject.PhoneNumber) applyFunc {
	telegram := lookup(ctx, a.providers.Telegram, phone)
	whatsapp := lookup(ctx, a.providers.WhatsApp, phone)

	return func(w *model.WorkingResult, at time.Time) error {
		tg, tok := telegram.outcome.Get()
		wa, wok := whatsapp.outcome.Get()
		if !tok && !wok {
			return joinReasons(telegram, whatsapp)
		}

		if tok {
			w.TelegramPresence = &tg
			w.UseSources(telegram.name)
			factors, err := TelegramFactors(tg, at)
			if err != nil {
				return err
			}
			for _, rf := range factors {
				w.AddFactor(rf)
			}
		}
		if wok {
			w.WhatsAppPresence = &wa
			w.UseSources(whatsapp.name)
		}

		return joinReasons(telegram, whatsapp)
	}
}

// --- Provider calls ---

type lookupResult[T any] struct {
	outcome model.Outcome[T]
	name    string
}

func (r lookupResult[T]) err() error {
	if r.outcome.IsAvailable() {
		return nil
	}
	return fmt.Errorf("%s: %s", r.name, r.outcome.Reason())
}

type reasoner interface{ err() error }

// joinReasons combines the unavailability reasons of several lookups, or
// returns nil when all were available.
func joinReasons(results ...reasoner) error {
	var msgs []string
	for _, r := range results {
		if err := r.err(); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "; "))
}

// lookup calls one provider, treating a missing provider or a panic as
// unavailable evidence.
func lookup[T any](ctx context.Context, p port.EvidenceProvider[T], phone valueobject.PhoneNumber) (res lookupResult[T]) {
	if p == nil {
		return lookupResult[T]{name: "unconfigured", outcome: model.Unavailable[T]("provider not configured")}
	}
	res.name = p.Name()

	defer func() {
		if r := recover(); r != nil {
			res.outcome = model.Unavailable[T](fmt.Sprintf("provider panicked: %v", r))
		}
	}()

	res.outcome = p.Lookup(ctx, phone)
	return res
}
