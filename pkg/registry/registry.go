package registry

import (
	"sync"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poolerrors"
)

// Registry is a concurrent serial -> value mapping. No reentrancy: a
// second Insert with the same key is a programming error.
type Registry[T any] struct {
	m sync.Map
}

// New creates an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Insert adds val under key. Returns a ProgrammingError if key is
// already present; the existing entry is left untouched.
func (r *Registry[T]) Insert(key string, val T) error {
	if _, loaded := r.m.LoadOrStore(key, val); loaded {
		return poolerrors.Programming(errDuplicateSerial(key))
	}
	return nil
}

// RemoveIfPresent deletes key and returns its value, if present.
func (r *Registry[T]) RemoveIfPresent(key string) (T, bool) {
	v, ok := r.m.LoadAndDelete(key)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Contains reports whether key is present.
func (r *Registry[T]) Contains(key string) bool {
	_, ok := r.m.Load(key)
	return ok
}

// Get returns the value for key, if present.
func (r *Registry[T]) Get(key string) (T, bool) {
	v, ok := r.m.Load(key)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Values returns a snapshot of every currently registered value. Order
// is unspecified.
func (r *Registry[T]) Values() []T {
	var out []T
	r.m.Range(func(_, v any) bool {
		out = append(out, v.(T))
		return true
	})
	return out
}

// Keys returns a snapshot of every currently registered key.
func (r *Registry[T]) Keys() []string {
	var out []string
	r.m.Range(func(k, _ any) bool {
		out = append(out, k.(string))
		return true
	})
	return out
}

type duplicateSerialError string

func (e duplicateSerialError) Error() string {
	return "registry: serial already present: " + string(e)
}

func errDuplicateSerial(serial string) error { return duplicateSerialError(serial) }
