package telemetry

import (
	"context"
	"regexp"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/types"
)

const storageScopeName = "github.com/repotasks/repo-tasks/storage"

// InstrumentedStore wraps storage.Store with OTel tracing and metrics.
// Every method gets a "store.<op>" span and is counted in tasks.store.* metrics.
// Use WrapStore to create one; it returns the original store unchanged when
// telemetry is disabled.
type InstrumentedStore struct {
	inner  storage.Store
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

var _ storage.Store = (*InstrumentedStore)(nil)

// WrapStore returns s decorated with OTel instrumentation.
// When telemetry is disabled, s is returned as-is.
func WrapStore(s storage.Store) storage.Store {
	if !Enabled() {
		return s
	}
	return newInstrumentedStore(s)
}

func newInstrumentedStore(s storage.Store) *InstrumentedStore {
	m := Meter(storageScopeName)
	ops, _ := m.Int64Counter("tasks.store.operations",
		metric.WithDescription("Total store operations executed"),
	)
	dur, _ := m.Float64Histogram("tasks.store.operation.duration",
		metric.WithDescription("Store operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("tasks.store.errors",
		metric.WithDescription("Total store operation errors"),
	)
	return &InstrumentedStore{
		inner:  s,
		tracer: Tracer(storageScopeName),
		ops:    ops,
		dur:    dur,
		errs:   errs,
	}
}

// op starts a span and records a metric for the named store operation.
func (s *InstrumentedStore) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("store.operation", name)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "store."+name, trace.WithAttributes(all...))
	s.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (s *InstrumentedStore) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	s.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (s *InstrumentedStore) Write(ctx context.Context, task *types.Task, status types.Status) (string, error) {
	attrs := []attribute.KeyValue{
		attribute.String("tasks.task.id", task.ID),
		attribute.String("tasks.status", string(status)),
	}
	ctx, span, t := s.op(ctx, "write", attrs...)
	path, err := s.inner.Write(ctx, task, status)
	s.done(ctx, span, t, err, attrs...)
	return path, err
}

func (s *InstrumentedStore) FindByFragment(ctx context.Context, fragment string) (*types.Task, string, error) {
	attrs := []attribute.KeyValue{attribute.String("tasks.fragment", fragment)}
	ctx, span, t := s.op(ctx, "find", attrs...)
	task, path, err := s.inner.FindByFragment(ctx, fragment)
	s.done(ctx, span, t, err, attrs...)
	return task, path, err
}

func (s *InstrumentedStore) ListByStatus(ctx context.Context, status types.Status) ([]*types.Task, error) {
	attrs := []attribute.KeyValue{attribute.String("tasks.status", string(status))}
	ctx, span, t := s.op(ctx, "list", attrs...)
	tasks, err := s.inner.ListByStatus(ctx, status)
	if err == nil {
		span.SetAttributes(attribute.Int("tasks.result.count", len(tasks)))
	}
	s.done(ctx, span, t, err, attrs...)
	return tasks, err
}

func (s *InstrumentedStore) Move(ctx context.Context, task *types.Task, fromPath string, to types.Status) (storage.MoveResult, error) {
	attrs := []attribute.KeyValue{
		attribute.String("tasks.task.id", task.ID),
		attribute.String("tasks.status.from", string(task.Status)),
		attribute.String("tasks.status.to", string(to)),
	}
	ctx, span, t := s.op(ctx, "move", attrs...)
	res, err := s.inner.Move(ctx, task, fromPath, to)
	span.SetAttributes(attribute.String("tasks.move.outcome", res.Outcome.String()))
	s.done(ctx, span, t, err, attrs...)
	return res, err
}

func (s *InstrumentedStore) Init(ctx context.Context, statuses []types.Status) error {
	ctx, span, t := s.op(ctx, "init", attribute.Int("tasks.status.count", len(statuses)))
	err := s.inner.Init(ctx, statuses)
	s.done(ctx, span, t, err)
	return err
}

func (s *InstrumentedStore) Create(ctx context.Context, draft *types.Task, status types.Status) (string, error) {
	attrs := []attribute.KeyValue{attribute.String("tasks.status", string(status))}
	ctx, span, t := s.op(ctx, "create", attrs...)
	path, err := s.inner.Create(ctx, draft, status)
	if err == nil {
		span.SetAttributes(attribute.String("tasks.task.id", draft.ID))
	}
	s.done(ctx, span, t, err, attrs...)
	return path, err
}

func (s *InstrumentedStore) Update(ctx context.Context, task *types.Task, oldPath string) (string, error) {
	attrs := []attribute.KeyValue{attribute.String("tasks.task.id", task.ID)}
	ctx, span, t := s.op(ctx, "update", attrs...)
	path, err := s.inner.Update(ctx, task, oldPath)
	s.done(ctx, span, t, err, attrs...)
	return path, err
}

func (s *InstrumentedStore) ListAll(ctx context.Context, statuses []types.Status) ([]*types.Task, error) {
	ctx, span, t := s.op(ctx, "list_all")
	tasks, err := s.inner.ListAll(ctx, statuses)
	if err == nil {
		span.SetAttributes(attribute.Int("tasks.result.count", len(tasks)))
	}
	s.done(ctx, span, t, err)
	return tasks, err
}

func (s *InstrumentedStore) Search(ctx context.Context, pattern *regexp.Regexp) ([]storage.Match, error) {
	attrs := []attribute.KeyValue{attribute.String("tasks.query", pattern.String())}
	ctx, span, t := s.op(ctx, "search", attrs...)
	matches, err := s.inner.Search(ctx, pattern)
	if err == nil {
		span.SetAttributes(attribute.Int("tasks.result.count", len(matches)))
	}
	s.done(ctx, span, t, err, attrs...)
	return matches, err
}

func (s *InstrumentedStore) Exists(ctx context.Context, id string) (bool, error) {
	attrs := []attribute.KeyValue{attribute.String("tasks.task.id", id)}
	ctx, span, t := s.op(ctx, "exists", attrs...)
	ok, err := s.inner.Exists(ctx, id)
	s.done(ctx, span, t, err, attrs...)
	return ok, err
}
