package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrMode    = "mode"
	attrDiagram = "diagram"
)

type diagramKey struct{}

// WithDiagram returns a context that tags log records with the diagram being processed.
func WithDiagram(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, diagramKey{}, path)
}

// DiagramFromContext returns the diagram path set by [WithDiagram].
func DiagramFromContext(ctx context.Context) (string, bool) {
	path, ok := ctx.Value(diagramKey{}).(string)

	return path, ok
}

// ContextHandler is an [slog.Handler] that adds the active span's trace_id and
// span_id and the diagram path carried by the context to every record.
// The service and mode attributes are attached once at construction so they
// stay at the top level under WithGroup.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler wraps inner with service metadata and context injection.
func NewContextHandler(inner slog.Handler, service string, appMode AppMode) *ContextHandler {
	return &ContextHandler{
		inner: inner.WithAttrs([]slog.Attr{
			slog.String(attrService, service),
			slog.String(attrMode, string(appMode)),
		}),
	}
}

// Enabled delegates to the inner handler.
func (ch *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return ch.inner.Enabled(ctx, level)
}

// Handle adds context attributes and delegates.
func (ch *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if path, ok := DiagramFromContext(ctx); ok {
		record.AddAttrs(slog.String(attrDiagram, path))
	}

	err := ch.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("context handler: %w", err)
	}

	return nil
}

// WithAttrs returns a ContextHandler with additional attributes on the inner handler.
func (ch *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: ch.inner.WithAttrs(attrs)}
}

// WithGroup returns a ContextHandler with a group prefix on the inner handler.
func (ch *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: ch.inner.WithGroup(name)}
}
