// Package session implements the per-user prediction request lifecycle:
// debouncing rapid text changes, canceling superseded in-flight calls, and
// reconciling completions deterministically.
//
// A Session owns exactly one "current intent" (the latest text). Every state
// mutation happens under one mutex, so timer fires and network completions
// never interleave mid-transition. Completions are matched against the
// active request id, never trusted by arrival order: a response for any
// other id is stale and dropped without touching state. Physical
// cancellation of the transport call is advisory; correctness rests entirely
// on that id comparison.
package session
