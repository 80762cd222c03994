package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Cache lookup outcomes recorded by the transcript store.
const (
	LookupHit    = "hit"
	LookupMiss   = "miss"
	LookupShared = "shared"
)

// InitMeter installs a periodic OTLP/HTTP meter provider globally.
func InitMeter(ctx context.Context, cfg Config, svc ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	res, err := newResource(svc)
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the service meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the service's instruments.
type Metrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	cacheLookups      metric.Int64Counter
	builds            metric.Int64Counter
	buildDuration     metric.Float64Histogram
	matches           metric.Int64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error
	if m.operationTotal, err = meter.Int64Counter("provider_requests_total",
		metric.WithDescription("Outbound provider calls by provider and status")); err != nil {
		return nil, fmt.Errorf("creating provider_requests_total: %w", err)
	}
	if m.operationDuration, err = meter.Float64Histogram("provider_request_duration_seconds",
		metric.WithDescription("Outbound provider call latency"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating provider_request_duration_seconds: %w", err)
	}
	if m.cacheLookups, err = meter.Int64Counter("transcript_cache_lookups_total",
		metric.WithDescription("Transcript store lookups by result (hit, miss, shared)")); err != nil {
		return nil, fmt.Errorf("creating transcript_cache_lookups_total: %w", err)
	}
	if m.builds, err = meter.Int64Counter("transcript_builds_total",
		metric.WithDescription("Transcript builds by status")); err != nil {
		return nil, fmt.Errorf("creating transcript_builds_total: %w", err)
	}
	if m.buildDuration, err = meter.Float64Histogram("transcript_build_duration_seconds",
		metric.WithDescription("Extraction plus transcription latency"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating transcript_build_duration_seconds: %w", err)
	}
	if m.matches, err = meter.Int64Histogram("invideo_search_matches",
		metric.WithDescription("Matches returned per in-video search")); err != nil {
		return nil, fmt.Errorf("creating invideo_search_matches: %w", err)
	}
	return m, nil
}

// DefaultMetrics is NewMetrics on the global meter. It returns nil when
// instrument creation fails; every Record method accepts a nil receiver.
func DefaultMetrics() *Metrics {
	m, err := NewMetrics(Meter())
	if err != nil {
		return nil
	}
	return m
}

// RecordOperation records one outbound provider call.
func (m *Metrics) RecordOperation(ctx context.Context, provider, operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	))
}

// RecordCacheLookup records a transcript store lookup outcome.
func (m *Metrics) RecordCacheLookup(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordBuild records a finished transcript build.
func (m *Metrics) RecordBuild(ctx context.Context, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.builds.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.buildDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

// RecordMatches records the size of an in-video search answer.
func (m *Metrics) RecordMatches(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.matches.Record(ctx, int64(n))
}
