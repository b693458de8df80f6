package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// TracingHandler is an [slog.Handler] that adds trace_id and span_id from the
// active span, plus the service name, to every record.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner. Extra attrs are pre-attached at the top level.
func NewTracingHandler(inner slog.Handler, service string, attrs ...slog.Attr) *TracingHandler {
	all := append([]slog.Attr{slog.String("service", service)}, attrs...)
	return &TracingHandler{inner: inner.WithAttrs(all)}
}

func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}
	return nil
}

func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
