// Package prober implements the Readiness Prober: a per-device
// short-lived worker that waits for a newly discovered device to answer
// a liveness probe before the manager promotes it into the Availability
// Queue.
package prober
