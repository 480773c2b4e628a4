package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/speechkit/logger"
)

const defaultTracerName = "github.com/kbukum/speechkit"

// newTracerProvider batches spans to the OTLP endpoint. Sampling follows the
// parent span and otherwise keeps SampleRate of root traces.
func newTracerProvider(ctx context.Context, res *resource.Resource, cfg Config) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	), nil
}

// newResource describes the service. The attributes are schemaless so the
// merge with resource.Default never hits a schema URL conflict.
func newResource(serviceName, serviceVersion, environment string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			attribute.String("environment", environment),
		),
	)
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a span on the default tracer, tagged with the context's
// run id when one is set.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if id, ok := logger.RunIDFromContext(ctx); ok {
		opts = append(opts, trace.WithAttributes(attribute.String(AttrRunID, id)))
	}
	return Tracer(defaultTracerName).Start(ctx, name, opts...)
}

// EndSpan records err, if any, and ends span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Span names.
const (
	SpanItemLoad  = "dataset.item.load"
	SpanBatchLoad = "dataloader.batch"
	SpanPlan      = "dataset.plan"
)

// Attribute keys.
const (
	AttrRecording  = "speechkit.recording"
	AttrChunkIndex = "speechkit.chunk.index"
	AttrStartFrame = "speechkit.chunk.start"
	AttrEndFrame   = "speechkit.chunk.end"
	AttrBatchIndex = "speechkit.batch.index"
	AttrBatchSize  = "speechkit.batch.size"
	AttrErrorCode  = "speechkit.error.code"
	AttrRunID      = "speechkit.run.id"
)
