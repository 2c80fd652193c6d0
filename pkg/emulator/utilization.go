package emulator

import (
	"sync"
	"time"
)

// Window is the rolling reporting window for utilization statistics.
const Window = 24 * time.Hour

type interval struct {
	start time.Time
	end   time.Time // zero means still open (allocated, not yet freed)
}

// Stats tracks per-serial allocate/free timestamps over a rolling
// window, for reporting how heavily each emulator slot has been used.
type Stats struct {
	mu      sync.Mutex
	records map[string][]interval
}

// NewStats creates an empty Stats tracker.
func NewStats() *Stats {
	return &Stats{records: make(map[string][]interval)}
}

// RecordAllocate opens a new interval for serial at t.
func (s *Stats) RecordAllocate(serial string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[serial] = append(s.records[serial], interval{start: t})
}

// RecordFree closes the most recent open interval for serial at t. A
// free with no matching open interval is ignored.
func (s *Stats) RecordFree(serial string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intervals := s.records[serial]
	for i := len(intervals) - 1; i >= 0; i-- {
		if intervals[i].end.IsZero() {
			intervals[i].end = t
			return
		}
	}
}

// AllocatedDuration returns how long serial has been allocated within
// the rolling Window ending at now, including any still-open interval.
func (s *Stats) AllocatedDuration(serial string, now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	windowStart := now.Add(-Window)
	var total time.Duration
	for _, iv := range s.records[serial] {
		end := iv.end
		if end.IsZero() {
			end = now
		}
		start := iv.start
		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(start) {
			total += end.Sub(start)
		}
	}
	return total
}

// Prune discards intervals that ended entirely before the rolling
// window. Callers may invoke this periodically to bound memory use;
// AllocatedDuration is correct regardless of whether Prune has run.
func (s *Stats) Prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	windowStart := now.Add(-Window)
	for serial, intervals := range s.records {
		kept := intervals[:0]
		for _, iv := range intervals {
			if iv.end.IsZero() || iv.end.After(windowStart) {
				kept = append(kept, iv)
			}
		}
		if len(kept) == 0 {
			delete(s.records, serial)
		} else {
			s.records[serial] = kept
		}
	}
}
