// Package dispatch runs chunk-level fetch jobs concurrently under one of
// two completion policies.
//
// CollectAll waits for every job to reach a terminal state and merges all
// results; a failed job is isolated and contributes nothing. FirstMatch
// returns as soon as any job produces a non-empty result, cooperatively
// cancelling the rest through the shared context.
//
// Result aggregation order is implementation-defined; callers must treat
// the merged record set as unordered.
package dispatch
