package poollog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapterWritesExpectedAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Log(Event{
		Serial:          "ABCD1234",
		Kind:            KindFreed,
		Disposition:     "Available",
		AllocationState: "Unavailable",
	})

	out := buf.String()
	for _, want := range []string{"serial=ABCD1234", "kind=FREED", "disposition=Available"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}
