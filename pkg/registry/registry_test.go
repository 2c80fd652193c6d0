package registry

import (
	"testing"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poolerrors"
)

func TestInsertAndGet(t *testing.T) {
	r := New[int]()
	if err := r.Insert("A1", 42); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	v, ok := r.Get("A1")
	if !ok || v != 42 {
		t.Errorf("Get = %v, %v, want 42, true", v, ok)
	}
}

func TestDuplicateInsertIsProgrammingError(t *testing.T) {
	r := New[int]()
	r.Insert("A1", 1)
	err := r.Insert("A1", 2)
	if err == nil {
		t.Fatal("expected error on duplicate insert")
	}
	if poolerrors.ClassifyOf(err) != poolerrors.ProgrammingError {
		t.Errorf("kind = %v, want ProgrammingError", poolerrors.ClassifyOf(err))
	}
	v, _ := r.Get("A1")
	if v != 1 {
		t.Error("failed duplicate insert must not overwrite existing entry")
	}
}

func TestRemoveIfPresent(t *testing.T) {
	r := New[int]()
	r.Insert("A1", 1)
	v, ok := r.RemoveIfPresent("A1")
	if !ok || v != 1 {
		t.Fatalf("RemoveIfPresent = %v, %v", v, ok)
	}
	if r.Contains("A1") {
		t.Error("A1 should be gone after remove")
	}
	// idempotent
	if _, ok := r.RemoveIfPresent("A1"); ok {
		t.Error("second RemoveIfPresent should report absent")
	}
}

func TestValuesAndKeys(t *testing.T) {
	r := New[int]()
	r.Insert("A1", 1)
	r.Insert("B1", 2)
	if len(r.Values()) != 2 {
		t.Errorf("Values() len = %d, want 2", len(r.Values()))
	}
	if len(r.Keys()) != 2 {
		t.Errorf("Keys() len = %d, want 2", len(r.Keys()))
	}
}
