// Package cardgate provides an in-memory access-control card registry with a
// pluggable hardware backend, bitmask-based capabilities, and a stable JSON
// wire encoding for card state.
//
// The package is designed for concurrent server workloads: Registry methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build] or the New constructors.
//
// # Architecture boundaries
//
// cardgate is the public surface. It exposes [Registry], [Builder], [Config],
// the [Backend] interface with its reference implementations, and the audit
// and metrics value types. The card value type and its codec live in the card
// subpackage; the capability bitmask lives in permission; signed card grants
// live in token.
//
// The Registry never performs physical I/O itself. All hardware and bridge
// traffic flows through the configured [Backend]; the registry's store
// operations (Put, Get, Unbind, Contains, Cards, Len) touch memory only.
//
// # What this package must NOT do
//
//   - Accept a malformed Card past the card.Decode boundary.
//   - Swallow a backend failure: every read/write error surfaces as a
//     [*KernelError].
//   - Persist the registry itself. Durable card state is the backend
//     collaborator's responsibility.
package cardgate
