// Package transition provides the engine that evaluates transition requests
// against a table and commits accepted ones through a repository.
//
// The engine keeps no per-entity state. Every call receives the entity
// snapshot, the table and the repository it works with, so any number of
// goroutines may share one Engine. Serialization of commits on the same
// entity is the repository's job (see ports.Repository.TryCommit).
package transition

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/telemetry"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

const tracerName = "github.com/ramartinez7/coding-guidelines-sub005/internal/app/transition"

// Outcome labels recorded on spans and metrics.
const (
	outcomeCommitted = "committed"
	outcomeError     = "error"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	now     func() time.Time
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

// WithClock sets the clock used to stamp transition records.
// Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithTracer sets the tracer used for transition spans.
// Defaults to the global tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithMetrics enables transition metrics. Without it nothing is recorded.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// Engine evaluates transition requests for entities whose state type is S
// and whose request payload type is P. All of its fields are set at
// construction and never change.
type Engine[S comparable, P any] struct {
	logger  *slog.Logger
	now     func() time.Time
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

// New creates an Engine. A nil logger discards log output.
func New[S comparable, P any](logger *slog.Logger, opts ...Option) *Engine[S, P] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	return &Engine[S, P]{
		logger:  logger,
		now:     o.now,
		tracer:  o.tracer,
		metrics: o.metrics,
	}
}

// RequestTransition evaluates req against entity and table and, if the
// table has a matching rule whose guard allows it, commits the rule's
// target state through repo.
//
// The domain outcome is returned as a Result: Success with the updated
// entity, or Failure with a *fsm.TransitionError of kind
// KindNoSuchTransition, KindGuardRejected or KindVersionConflict. A
// version conflict is never retried here; the caller reloads and decides.
//
// The error return is used only when the call could not be completed:
// a canceled context, or a repository failure (including
// domain.ErrNotFound when the entity is not stored). Failed calls leave
// the stored entity unchanged. entity itself is never modified.
func (e *Engine[S, P]) RequestTransition(
	ctx context.Context,
	entity fsm.Entity[S],
	req fsm.Request[P],
	table *fsm.Table[S, P],
	repo ports.Repository[S],
) (result.Result[fsm.Entity[S], *fsm.TransitionError], error) {
	start := time.Now()

	ctx, span := e.tracer.Start(ctx, "fsm.RequestTransition", trace.WithAttributes(
		attribute.String("fsm.entity_id", entity.ID.String()),
		attribute.String("fsm.state", fmt.Sprint(entity.State)),
		attribute.String("fsm.event", req.Event),
		attribute.Int64("fsm.expected_version", int64(req.ExpectedVersion)), //nolint:gosec // versions stay far below MaxInt64
	))
	defer span.End()

	res, err := e.evaluate(ctx, entity, req, table, repo)

	outcome := outcomeOf(res, err)
	span.SetAttributes(attribute.String("fsm.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	e.recordMetrics(ctx, req.Event, outcome, start)

	return res, err
}

func (e *Engine[S, P]) evaluate(
	ctx context.Context,
	entity fsm.Entity[S],
	req fsm.Request[P],
	table *fsm.Table[S, P],
	repo ports.Repository[S],
) (result.Result[fsm.Entity[S], *fsm.TransitionError], error) {
	logger := e.logger.With(
		slog.String("entity_id", entity.ID.String()),
		slog.String("event", req.Event),
		slog.Any("state", entity.State),
	)

	if err := ctx.Err(); err != nil {
		return result.Result[fsm.Entity[S], *fsm.TransitionError]{}, fmt.Errorf("requesting %s transition: %w", req.Event, err)
	}

	// The table and guard are only meaningful for the state at the version
	// the commit will be conditioned on.
	if entity.Version != req.ExpectedVersion {
		logger.InfoContext(ctx, "transition rejected: stale snapshot",
			slog.Uint64("expected_version", req.ExpectedVersion),
			slog.Uint64("snapshot_version", entity.Version),
		)
		return result.Failure[fsm.Entity[S]](fsm.Conflict(entity.State, req.Event, fsm.VersionConflict{
			Expected: req.ExpectedVersion,
			Actual:   entity.Version,
		})), nil
	}

	entry, ok := table.Lookup(entity.State, req.Event).Get()
	if !ok {
		logger.InfoContext(ctx, "transition rejected: no such transition")
		return result.Failure[fsm.Entity[S]](fsm.NoSuchTransition(entity.State, req.Event)), nil
	}

	if allowed, reason := entry.Allows(entity, req.Payload); !allowed {
		logger.InfoContext(ctx, "transition rejected by guard", slog.String("reason", reason))
		return result.Failure[fsm.Entity[S]](fsm.GuardRejected(entity.State, req.Event, reason)), nil
	}

	record := fsm.TransitionRecord[S]{
		From:    entity.State,
		To:      entry.Target,
		Event:   req.Event,
		At:      e.now().UTC(),
		Version: req.ExpectedVersion + 1,
	}

	committed, err := repo.TryCommit(ctx, entity.ID, req.ExpectedVersion, entry.Target, record)
	if err != nil {
		logger.ErrorContext(ctx, "failed to commit transition",
			slog.String("operation", "RequestTransition"),
			slog.Any("error", err),
		)
		return result.Result[fsm.Entity[S], *fsm.TransitionError]{}, fmt.Errorf("committing %s transition for %s: %w", req.Event, entity.ID, err)
	}

	return result.Match(committed,
		func(updated fsm.Entity[S]) result.Result[fsm.Entity[S], *fsm.TransitionError] {
			logger.InfoContext(ctx, "transition committed",
				slog.Any("target", updated.State),
				slog.Uint64("version", updated.Version),
			)
			return result.Success[fsm.Entity[S], *fsm.TransitionError](updated)
		},
		func(vc fsm.VersionConflict) result.Result[fsm.Entity[S], *fsm.TransitionError] {
			logger.InfoContext(ctx, "transition rejected: version conflict",
				slog.Uint64("expected_version", vc.Expected),
				slog.Uint64("actual_version", vc.Actual),
			)
			return result.Failure[fsm.Entity[S]](fsm.Conflict(entity.State, req.Event, vc))
		},
	), nil
}

// recordMetrics records transition duration and count. Safe with nil metrics.
func (e *Engine[S, P]) recordMetrics(ctx context.Context, event, outcome string, start time.Time) {
	if e.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrEvent.String(event),
		telemetry.AttrResult.String(outcome),
	)

	e.metrics.TransitionDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	e.metrics.TransitionTotal.Add(ctx, 1, attrs)
}

func outcomeOf[T any](res result.Result[T, *fsm.TransitionError], err error) string {
	if err != nil {
		return outcomeError
	}
	if res.IsSuccess() {
		return outcomeCommitted
	}
	return res.Err().Kind.String()
}
