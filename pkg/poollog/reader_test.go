package poollog

import (
	"io"
	"path/filepath"
	"testing"
)

func writeEvents(t *testing.T, path string, events []Event) {
	t.Helper()
	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range events {
		fl.Log(e)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestFilteredReaderBySerial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.plog")
	writeEvents(t, path, []Event{
		{Serial: "A1", Kind: KindDiscovered},
		{Serial: "B1", Kind: KindDiscovered},
		{Serial: "A1", Kind: KindAllocated},
	})

	r, err := NewFilteredReader(path, Filter{Serial: "A1"})
	if err != nil {
		t.Fatalf("NewFilteredReader: %v", err)
	}
	defer r.Close()

	var got []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events for serial A1, want 2", len(got))
	}
}

func TestFilteredReaderByKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.plog")
	writeEvents(t, path, []Event{
		{Serial: "A1", Kind: KindDiscovered},
		{Serial: "A1", Kind: KindAllocated},
		{Serial: "A1", Kind: KindFreed},
	})

	kind := KindFreed
	r, err := NewFilteredReader(path, Filter{Kind: &kind})
	if err != nil {
		t.Fatalf("NewFilteredReader: %v", err)
	}
	defer r.Close()

	e, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if e.Kind != KindFreed {
		t.Errorf("Kind = %v, want KindFreed", e.Kind)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after exhausting matches, got %v", err)
	}
}
