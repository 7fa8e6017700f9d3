package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for retention run IDs.
	RunIDKey contextKey = "run_id"

	// TriggerKey is the context key for what started a run
	// ("startup", "cron", "manual", "reload").
	TriggerKey contextKey = "trigger"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithTrigger adds a run trigger to the context.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, TriggerKey, trigger)
}

// GetTrigger retrieves the run trigger from the context.
func GetTrigger(ctx context.Context) string {
	if trigger, ok := ctx.Value(TriggerKey).(string); ok {
		return trigger
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
func extractContextFields(ctx context.Context) []slog.Attr {
	var fields []slog.Attr

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, slog.String(string(RunIDKey), runID))
	}
	if trigger := GetTrigger(ctx); trigger != "" {
		fields = append(fields, slog.String(string(TriggerKey), trigger))
	}

	return fields
}

// ContextHandler adds the context fields set with WithRunID and WithTrigger
// to every record logged through the *Context methods of slog.Logger.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler wraps h.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		r.AddAttrs(extractContextFields(ctx)...)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
