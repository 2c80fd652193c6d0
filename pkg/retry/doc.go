// Package retry provides bounded-retry helpers for the pool's external
// command invocations: the global "adb connect" attempts behind
// connectTcp, and any other fixed-interval retry the manager needs around
// a flaky external command.
//
// It retries a fixed number of times at a fixed interval, matching the
// pool's documented "3 attempts, 5 second spacing" policy for adb
// connect, rather than an open-ended exponential backoff.
package retry
