package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// TraceContextHandler enriches every record logged with a context: the
// active span ids, and the request, report and view ids stored in ctx.
// Ids already bound through Logger.With are not repeated.
type TraceContextHandler struct {
	inner slog.Handler
	bound map[ContextKey]bool
}

func NewTraceContextHandler(inner slog.Handler) *TraceContextHandler {
	return &TraceContextHandler{inner: inner}
}

func (h *TraceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *TraceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
		if sc.IsSampled() {
			r.AddAttrs(slog.Bool("trace_sampled", true))
		}
	}
	for _, key := range contextKeys {
		if h.bound[key] {
			continue
		}
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			r.AddAttrs(slog.String(string(key), v))
		}
	}
	return h.inner.Handle(ctx, r)
}

func (h *TraceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make(map[ContextKey]bool, len(h.bound)+len(attrs))
	for k := range h.bound {
		bound[k] = true
	}
	for _, a := range attrs {
		for _, key := range contextKeys {
			if a.Key == string(key) {
				bound[key] = true
			}
		}
	}
	return &TraceContextHandler{inner: h.inner.WithAttrs(attrs), bound: bound}
}

// WithGroup keeps the bound set; ids added later land inside the group.
func (h *TraceContextHandler) WithGroup(name string) slog.Handler {
	return &TraceContextHandler{inner: h.inner.WithGroup(name), bound: h.bound}
}
