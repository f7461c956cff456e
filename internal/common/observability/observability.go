package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	JaegerEndpoint string
}

// Observability bundles the meter and tracer used around assessments.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	assessmentCounter  otelmetric.Int64Counter
	assessmentDuration otelmetric.Float64Histogram
}

func New(cfg Config, log *zap.Logger) *Observability {
	o := &Observability{tracer: noop.NewTracerProvider().Tracer(cfg.ServiceName)}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter", zap.Error(err))
	} else {
		o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
		otel.SetMeterProvider(o.meterProvider)

		meter := o.meterProvider.Meter(cfg.ServiceName)
		o.assessmentCounter, _ = meter.Int64Counter(
			"assessments.processed",
			otelmetric.WithDescription("Number of risk assessments processed"),
		)
		o.assessmentDuration, _ = meter.Float64Histogram(
			"assessments.duration",
			otelmetric.WithDescription("Risk assessment duration"),
			otelmetric.WithUnit("ms"),
		)
	}

	if cfg.JaegerEndpoint != "" {
		traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)))
		if err != nil {
			log.Warn("failed to create jaeger exporter, tracing disabled", zap.Error(err))
		} else {
			o.tracerProvider = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(traceExporter),
				sdktrace.WithResource(res),
			)
			otel.SetTracerProvider(o.tracerProvider)
			o.tracer = o.tracerProvider.Tracer(cfg.ServiceName)
		}
	}

	return o
}

// NewNoop returns an instance that records nothing.
func NewNoop() *Observability {
	return &Observability{tracer: noop.NewTracerProvider().Tracer("noop")}
}

func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordAssessment(ctx context.Context, source, status string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	)
	if o.assessmentCounter != nil {
		o.assessmentCounter.Add(ctx, 1, attrs)
	}
	if o.assessmentDuration != nil {
		o.assessmentDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
