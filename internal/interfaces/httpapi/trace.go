package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var handlerTracer = otel.Tracer("player-rating/httpapi")

// handlerSpan opens "httpapi.<name>" under the request span. Without one,
// e.g. on untraced health routes, ctx is returned with a no-op span.
func handlerSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return handlerTracer.Start(ctx, "httpapi."+name)
}
