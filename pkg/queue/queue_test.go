package queue

import (
	"context"
	"sync"
	"testing"
	"time"
)

type item struct {
	serial string
	tag    int
}

func keyOf(i item) string { return i.serial }

func TestAddUniqueAppendsNewKey(t *testing.T) {
	q := New(keyOf)
	_, replaced := q.AddUnique(item{serial: "A1"})
	if replaced {
		t.Error("first insert should not report a replacement")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestAddUniqueReplacesExistingKeyInPlace(t *testing.T) {
	q := New(keyOf)
	q.AddUnique(item{serial: "A1", tag: 1})
	q.AddUnique(item{serial: "B1", tag: 1})

	old, replaced := q.AddUnique(item{serial: "A1", tag: 2})
	if !replaced {
		t.Fatal("expected replacement")
	}
	if old.tag != 1 {
		t.Errorf("replaced item tag = %d, want 1", old.tag)
	}
	if q.Len() != 2 {
		t.Errorf("Len() after replace = %d, want 2 (unchanged)", q.Len())
	}

	snap := q.Snapshot()
	if snap[0].serial != "A1" || snap[0].tag != 2 {
		t.Errorf("FIFO position not preserved: %+v", snap)
	}
}

func TestPollZeroTimeoutNeverBlocks(t *testing.T) {
	q := New(keyOf)
	start := time.Now()
	_, ok, err := q.Poll(context.Background(), 0, func(item) bool { return true })
	if time.Since(start) > 100*time.Millisecond {
		t.Error("Poll(0, ...) blocked")
	}
	if ok || err != nil {
		t.Errorf("Poll(0) on empty queue: ok=%v err=%v, want false/nil", ok, err)
	}
}

func TestPollZeroTimeoutReturnsImmediateMatch(t *testing.T) {
	q := New(keyOf)
	q.AddUnique(item{serial: "A1"})
	got, ok, err := q.Poll(context.Background(), 0, func(i item) bool { return i.serial == "A1" })
	if err != nil || !ok {
		t.Fatalf("Poll(0) ok=%v err=%v, want true/nil", ok, err)
	}
	if got.serial != "A1" {
		t.Errorf("got %+v, want serial A1", got)
	}
}

func TestTakeWakesOnInsert(t *testing.T) {
	q := New(keyOf)
	resultCh := make(chan item, 1)
	go func() {
		got, ok, err := q.Take(context.Background(), func(i item) bool { return i.serial == "A1" })
		if err != nil || !ok {
			t.Errorf("Take: ok=%v err=%v", ok, err)
			return
		}
		resultCh <- got
	}()

	time.Sleep(20 * time.Millisecond)
	q.AddUnique(item{serial: "A1", tag: 42})

	select {
	case got := <-resultCh:
		if got.tag != 42 {
			t.Errorf("got tag %d, want 42", got.tag)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Take did not wake on insert")
	}
}

func TestPollCancelledByContext(t *testing.T) {
	q := New(keyOf)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, _, err := q.Poll(ctx, Unbounded, func(item) bool { return false })
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("expected non-nil error on cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Poll did not unblock on context cancellation")
	}
}

func TestDisjointSelectorsNeverStealFromEachOther(t *testing.T) {
	q := New(keyOf)
	q.AddUnique(item{serial: "A1"})
	q.AddUnique(item{serial: "B1"})

	var wg sync.WaitGroup
	results := make(map[string]item)
	var mu sync.Mutex

	for _, want := range []string{"A1", "B1"} {
		wg.Add(1)
		go func(want string) {
			defer wg.Done()
			got, ok, err := q.Take(context.Background(), func(i item) bool { return i.serial == want })
			if err != nil || !ok {
				t.Errorf("Take(%s): ok=%v err=%v", want, ok, err)
				return
			}
			mu.Lock()
			results[want] = got
			mu.Unlock()
		}(want)
	}
	wg.Wait()

	if results["A1"].serial != "A1" || results["B1"].serial != "B1" {
		t.Errorf("selectors stole from each other: %+v", results)
	}
	if q.Len() != 0 {
		t.Errorf("Len() after both takes = %d, want 0", q.Len())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	q := New(keyOf)
	q.AddUnique(item{serial: "A1"})
	q.Remove(item{serial: "A1"})
	q.Remove(item{serial: "A1"})
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestSnapshotDoesNotMutate(t *testing.T) {
	q := New(keyOf)
	q.AddUnique(item{serial: "A1"})
	snap := q.Snapshot()
	snap[0] = item{serial: "MUTATED"}
	if q.Snapshot()[0].serial != "A1" {
		t.Error("mutating the snapshot slice affected the queue")
	}
}
