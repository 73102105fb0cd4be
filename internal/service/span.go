package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startSpan starts a span named name under the service's tracer and returns
// ctx carrying it plus a closer to defer; the closer records *errp on the
// span, if non-nil, before ending it. s.Tracer is always non-nil (New sets
// it to the global no-op tracer by default), so this is safe to call
// unconditionally.
func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	ctx, span := s.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
		}
		span.End()
	}
}
