// Package queue implements the Availability Queue: a dedup-by-key,
// thread-safe FIFO supporting blocking takes filtered by a caller-
// supplied predicate.
//
// Waiters are woken with a broadcast channel that is closed and replaced
// on every mutation, rather than sync.Cond — sync.Cond has no way to
// select against a context's Done channel, so a cancelled caller would
// have no way to unblock without an extra goroutine per waiter. Closing
// a channel is itself a one-shot broadcast: every blocked receive
// observes it in the same instant, which is exactly the "wake all,
// rescan, reselect" behavior poll/take need.
package queue
