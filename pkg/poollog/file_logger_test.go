package poollog

import (
	"path/filepath"
	"testing"
)

func TestFileLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.plog")

	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}

	fl.Log(Event{Serial: "A1", Kind: KindDiscovered})
	fl.Log(Event{Serial: "A1", Kind: KindAvailable})
	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	var got []Event
	for {
		e, err := r.Next()
		if err != nil {
			break
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Kind != KindDiscovered || got[1].Kind != KindAvailable {
		t.Errorf("unexpected event order/kinds: %+v", got)
	}
}

func TestFileLoggerLogAfterCloseIsSilentlyIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.plog")
	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	fl.Log(Event{Serial: "A1"}) // must not panic

	if err := fl.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}
}
