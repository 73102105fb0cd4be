// Package tracing wires up OpenTelemetry trace export. Metrics and host
// instrumentation are intentionally not included — no component in this
// service is CPU/host-metric sensitive enough to justify the extra
// exporter surface.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
)

const Name = "chonkit"

// Init configures a batching OTLP-over-HTTP trace exporter and installs it as
// the global tracer provider. If endpoint is empty, tracing is a no-op and
// the returned tracer records nothing.
func Init(ctx context.Context, endpoint, serviceVersion string) (trace.Tracer, func(context.Context) error, error) {
	if endpoint == "" {
		return otel.Tracer(Name), func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(Name),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build otel resource: %w", err)
	}

	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, nil, fmt.Errorf("init trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Tracer(Name), tp.Shutdown, nil
}

// Attr is a convenience alias so callers need only import this package.
var Attr = attribute.String
