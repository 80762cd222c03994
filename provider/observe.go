package provider

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
)

// WithLogging logs every call: Debug on success, Warn on failure.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{wrapped: wrapped[I, O]{inner}, log: log}
	}
}

type loggingRR[I, O any] struct {
	wrapped[I, O]
	log *logger.Logger
}

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	out, err := l.inner.Execute(ctx, input)
	fields := logger.Fields("provider", l.inner.Name(), logger.FieldDuration, time.Since(start).Milliseconds())
	if err != nil {
		fields[logger.FieldError] = err.Error()
		l.log.WithContext(ctx).Warn("provider call failed", fields)
	} else {
		l.log.WithContext(ctx).Debug("provider call ok", fields)
	}
	return out, err
}

// WithMetrics records a call counter and latency histogram per provider.
func WithMetrics[I, O any](metrics *observability.Metrics, operation string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{wrapped: wrapped[I, O]{inner}, metrics: metrics, operation: operation}
	}
}

type metricsRR[I, O any] struct {
	wrapped[I, O]
	metrics   *observability.Metrics
	operation string
}

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	out, err := m.inner.Execute(ctx, input)
	status := "success"
	if err != nil {
		status = "error"
	}
	m.metrics.RecordOperation(ctx, m.inner.Name(), m.operation, status, time.Since(start))
	return out, err
}

// WithTracing wraps every call in a span named "<spanPrefix>.<provider>".
func WithTracing[I, O any](spanPrefix string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{wrapped: wrapped[I, O]{inner}, prefix: spanPrefix}
	}
}

type tracingRR[I, O any] struct {
	wrapped[I, O]
	prefix string
}

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, t.prefix+"."+t.inner.Name(),
		attribute.String("provider.name", t.inner.Name()))
	defer span.End()
	out, err := t.inner.Execute(ctx, input)
	observability.RecordError(span, err)
	return out, err
}
