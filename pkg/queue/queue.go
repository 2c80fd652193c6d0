package queue

import (
	"context"
	"sync"
	"time"
)

// Unbounded is passed as the timeout to Poll to block indefinitely,
// equivalent to calling Take.
const Unbounded time.Duration = -1

// Queue is a dedup-by-key thread-safe FIFO. Two items with the same key
// never coexist: AddUnique replaces the existing entry in place.
type Queue[T any] struct {
	mu     sync.Mutex
	keyFn  func(T) string
	items  []T
	waitCh chan struct{}
}

// New creates an empty Queue keyed by keyFn.
func New[T any](keyFn func(T) string) *Queue[T] {
	return &Queue[T]{keyFn: keyFn, waitCh: make(chan struct{})}
}

// AddUnique inserts item. If an existing entry has the same key, it is
// replaced in place (FIFO position preserved) and returned as replaced
// with ok=true; otherwise item is appended and ok is false.
func (q *Queue[T]) AddUnique(item T) (replaced T, ok bool) {
	key := q.keyFn(item)

	q.mu.Lock()
	defer q.mu.Unlock()

	for i, existing := range q.items {
		if q.keyFn(existing) == key {
			replaced = q.items[i]
			q.items[i] = item
			q.wake()
			return replaced, true
		}
	}
	q.items = append(q.items, item)
	q.wake()
	var zero T
	return zero, false
}

// Remove deletes the entry whose key matches item's key. Idempotent: a
// missing key is not an error.
func (q *Queue[T]) Remove(item T) {
	key := q.keyFn(item)

	q.mu.Lock()
	defer q.mu.Unlock()

	for i, existing := range q.items {
		if q.keyFn(existing) == key {
			q.items = append(q.items[:i], q.items[i+1:]...)
			q.wake()
			return
		}
	}
}

// RemoveKey deletes the entry with the given key, if present.
func (q *Queue[T]) RemoveKey(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, existing := range q.items {
		if q.keyFn(existing) == key {
			q.items = append(q.items[:i], q.items[i+1:]...)
			q.wake()
			return
		}
	}
}

// Snapshot returns a stable copy of the current FIFO order. Does not
// mutate the queue.
func (q *Queue[T]) Snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the current number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Take blocks indefinitely for the first entry in FIFO order matching
// selector. Equivalent to Poll(ctx, Unbounded, selector).
func (q *Queue[T]) Take(ctx context.Context, selector func(T) bool) (T, bool, error) {
	return q.Poll(ctx, Unbounded, selector)
}

// Poll waits up to timeout for the first FIFO entry matching selector.
// timeout == 0 returns immediately (a single scan, never blocks).
// timeout < 0 blocks indefinitely (see Unbounded).
//
// On a match, the entry is removed and returned with ok=true.
// On timeout expiry, returns the zero value with ok=false and a nil
// error — the caller (the manager) reports this as "no device", not an
// error. On ctx cancellation, returns a non-nil error.
func (q *Queue[T]) Poll(ctx context.Context, timeout time.Duration, selector func(T) bool) (T, bool, error) {
	var deadline <-chan time.Time
	if timeout == 0 {
		if item, ok := q.tryTake(selector); ok {
			return item, true, nil
		}
		var zero T
		return zero, false, nil
	}
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if item, ok := q.tryTake(selector); ok {
			return item, true, nil
		}

		wait := q.currentWaitCh()
		select {
		case <-wait:
			// queue mutated; rescan
		case <-deadline:
			var zero T
			return zero, false, nil
		case <-ctx.Done():
			var zero T
			return zero, false, ctx.Err()
		}
	}
}

// tryTake removes and returns the first matching entry, if any, under
// the lock in a single atomic step so concurrent callers with disjoint
// selectors never both claim the same entry.
func (q *Queue[T]) tryTake(selector func(T) bool) (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, item := range q.items {
		if selector(item) {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (q *Queue[T]) currentWaitCh() chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waitCh
}

// wake must be called with q.mu held. It broadcasts to every blocked
// Poll/Take caller and installs a fresh channel for future waiters.
func (q *Queue[T]) wake() {
	close(q.waitCh)
	q.waitCh = make(chan struct{})
}
