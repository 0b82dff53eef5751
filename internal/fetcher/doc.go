// Package fetcher implements the batched fetch orchestrator.
//
// One fetch task runs per expiry-date group. Tasks are partitioned into
// consecutive batches of at most Concurrency, run concurrently within a
// batch, and a fixed BatchDelay pause separates batches (a simple
// fixed-rate throttle, not adaptive to API feedback). Per-group failures
// are logged and counted, never propagated.
package fetcher
