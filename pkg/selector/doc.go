// Package selector implements the predicate used both at discovery
// filtering and at allocation matching: a Selector decides whether a
// given device satisfies a caller's requirements.
package selector
