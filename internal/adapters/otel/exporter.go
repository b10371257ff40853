package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/stresschart/internal/ports"
)

const (
	serviceName    = "stresschart"
	serviceVersion = "1.0.0"
)

// Exporter exports run metrics to an OTEL Collector.
type Exporter struct {
	provider       *sdkmetric.MeterProvider
	recordsTotal   metric.Int64Counter
	tracesTotal    metric.Int64Counter
	renderDuration metric.Float64Histogram
	runsTotal      metric.Int64Counter
}

// New returns an OTLP exporter when cfg enables one, and a no-op exporter otherwise.
func New(ctx context.Context, cfg Config) (ports.MetricsExporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return NewNoOpExporter(), nil
	}
	return NewExporter(ctx, cfg)
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	recordsTotal, err := meter.Int64Counter(
		"stresschart_records_generated_total",
		metric.WithDescription("Subject records generated"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating records counter: %w", err)
	}

	tracesTotal, err := meter.Int64Counter(
		"stresschart_traces_rendered_total",
		metric.WithDescription("Chart traces rendered"),
		metric.WithUnit("{trace}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating traces counter: %w", err)
	}

	renderDuration, err := meter.Float64Histogram(
		"stresschart_render_duration_seconds",
		metric.WithDescription("Time spent rendering a figure"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating render duration histogram: %w", err)
	}

	runsTotal, err := meter.Int64Counter(
		"stresschart_runs_total",
		metric.WithDescription("Total number of generate-and-render runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	return &Exporter{
		provider:       provider,
		recordsTotal:   recordsTotal,
		tracesTotal:    tracesTotal,
		renderDuration: renderDuration,
		runsTotal:      runsTotal,
	}, nil
}

// ExportRunMetrics records one run.
func (e *Exporter) ExportRunMetrics(ctx context.Context, m *ports.RunMetrics) error {
	e.recordsTotal.Add(ctx, int64(m.PopulationSize),
		metric.WithAttributes(attribute.String("kind", "population")))
	e.recordsTotal.Add(ctx, int64(m.CohortSize),
		metric.WithAttributes(attribute.String("kind", "cohort")))

	format := metric.WithAttributes(attribute.String("format", m.Format))
	e.tracesTotal.Add(ctx, int64(m.TracesRendered), format)
	e.renderDuration.Record(ctx, m.RenderDuration.Seconds(), format)
	e.runsTotal.Add(ctx, 1, format)

	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
