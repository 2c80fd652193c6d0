// Package registry implements the Allocation Registry: a concurrent
// mapping from serial to the currently allocated handle, backed by
// sync.Map so point operations need no external lock.
package registry
