package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	ReportIDKey  ContextKey = "report_id"
	ViewIDKey    ContextKey = "view_id"
)

var contextKeys = []ContextKey{RequestIDKey, ReportIDKey, ViewIDKey}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithReportID(ctx context.Context, reportID string) context.Context {
	return context.WithValue(ctx, ReportIDKey, reportID)
}

func WithViewID(ctx context.Context, viewID string) context.Context {
	return context.WithValue(ctx, ViewIDKey, viewID)
}

// FromContext returns the default logger with the request, report and view
// ids found in ctx attached.
func FromContext(ctx context.Context) *slog.Logger {
	base := Logger
	if base == nil {
		base = slog.Default()
	}

	args := make([]any, 0, 6)
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			args = append(args, string(key), v)
		}
	}
	if len(args) == 0 {
		return base
	}
	return base.With(args...)
}
