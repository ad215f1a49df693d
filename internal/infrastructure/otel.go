package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"loanlens/pkg/contracts"
)

const (
	ServiceName = "loanlens"
	MeterName   = "loanlens"
	TracerName  = "loanlens"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	EnableTracing  bool // stdout trace export, off by default
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: contracts.Version,
		EnableTracing:  false,
	}
}

// OTelProviders holds the OpenTelemetry providers for a single run
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *RunMetrics

	reader *sdkmetric.ManualReader
	logger *slog.Logger
}

// RunMetrics holds the instruments recorded over one pipeline run
type RunMetrics struct {
	RecordsLoaded   metric.Int64Counter
	RecordsEligible metric.Int64Counter
	GroupsComputed  metric.Int64Counter
	StageDuration   metric.Float64Histogram
}

// InitializeOTel sets up tracing and metrics for a batch run.
// Metrics are gathered from a manual reader at end of run rather than
// served from an endpoint; there is no long-lived process to scrape.
func InitializeOTel(ctx context.Context, cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{logger: logger}

	// Tracing
	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.EnableTracing {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporter))
	}
	providers.TracerProvider = sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(providers.TracerProvider)
	providers.Tracer = providers.TracerProvider.Tracer(TracerName)

	// Metrics via manual reader, collected once per run
	providers.reader = sdkmetric.NewManualReader()
	providers.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(providers.reader),
	)
	otel.SetMeterProvider(providers.MeterProvider)
	providers.Meter = providers.MeterProvider.Meter(MeterName)

	metrics, err := newRunMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create run metrics: %w", err)
	}
	providers.Metrics = metrics

	logger.DebugContext(ctx, "observability initialized",
		slog.String("service", cfg.ServiceName),
		slog.Bool("tracing_enabled", cfg.EnableTracing))

	return providers, nil
}

func newRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	loaded, err := meter.Int64Counter("loanlens.records.loaded",
		metric.WithDescription("Loan records read from the input dataset"))
	if err != nil {
		return nil, err
	}
	eligible, err := meter.Int64Counter("loanlens.records.eligible",
		metric.WithDescription("Loan records passing the eligibility filter"))
	if err != nil {
		return nil, err
	}
	groups, err := meter.Int64Counter("loanlens.groups.computed",
		metric.WithDescription("Grade and sub-grade groups computed"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("loanlens.stage.duration",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &RunMetrics{
		RecordsLoaded:   loaded,
		RecordsEligible: eligible,
		GroupsComputed:  groups,
		StageDuration:   duration,
	}, nil
}

// StartStage opens a span for a pipeline stage and returns a closure that
// ends it, recording the stage duration and any error on the span.
func (p *OTelProviders) StartStage(ctx context.Context, name string) (context.Context, func(error)) {
	stageCtx, span := p.Tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("stage", name)))
	start := time.Now()

	return stageCtx, func(err error) {
		elapsed := time.Since(start)
		p.Metrics.StageDuration.Record(stageCtx, elapsed.Seconds(),
			metric.WithAttributes(attribute.String("stage", name)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		p.logger.DebugContext(stageCtx, "stage finished",
			slog.String("stage", name),
			slog.Duration("duration", elapsed),
			slog.Any("error", err))
	}
}

// CollectRunMetrics gathers everything recorded during the run from the
// manual reader and logs a compact snapshot.
func (p *OTelProviders) CollectRunMetrics(ctx context.Context) error {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return fmt.Errorf("failed to collect run metrics: %w", err)
	}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				p.logger.InfoContext(ctx, "run metric",
					slog.String("name", m.Name),
					slog.Int64("value", total))
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					p.logger.InfoContext(ctx, "run metric",
						slog.String("name", m.Name),
						slog.Uint64("count", dp.Count),
						slog.Float64("sum", dp.Sum))
				}
			}
		}
	}
	return nil
}

// Shutdown flushes and shuts down the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var firstErr error
	if err := p.TracerProvider.Shutdown(shutdownCtx); err != nil {
		firstErr = err
	}
	if err := p.MeterProvider.Shutdown(shutdownCtx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
