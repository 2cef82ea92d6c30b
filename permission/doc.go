// Package permission provides the fixed bitmask capability set attached to
// access cards and the pure set algebra used by cardgate authorization checks.
//
// # Bit layout
//
// Six capabilities occupy the low six bits of a [Set] and are frozen by the
// card wire contract: None, Regular, ITSupport, OpenDoors, Admin, SuperAdmin.
// Bits outside this range are never valid; [FromBits] is the only entry point
// for externally supplied masks and rejects them.
//
// # Architecture boundaries
//
// This package is a pure in-memory value type with no I/O. The card package
// builds its wire codec on top of [Set.Bits] and [FromBits].
//
// # What this package must NOT do
//
//   - Access Redis, hardware backends, or the network.
//   - Import cardgate, card, or token.
//   - Add, remove, or renumber capability bits after release.
package permission
