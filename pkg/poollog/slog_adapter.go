package poollog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes pool events to an slog.Logger.
// Useful for development when you want to see pool churn in console output.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("serial", event.Serial),
		slog.String("kind", event.Kind.String()),
	}
	if event.AllocationState != "" {
		attrs = append(attrs, slog.String("allocation_state", event.AllocationState))
	}
	if event.RuntimeState != "" {
		attrs = append(attrs, slog.String("runtime_state", event.RuntimeState))
	}
	if event.Disposition != "" {
		attrs = append(attrs, slog.String("disposition", event.Disposition))
	}
	if event.Variant != "" {
		attrs = append(attrs, slog.String("variant", event.Variant))
	}
	if event.Message != "" {
		attrs = append(attrs, slog.String("message", event.Message))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "pool", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
