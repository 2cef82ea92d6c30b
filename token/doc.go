// Package token issues and verifies signed card grants: short-lived JWTs
// embedding a card's identity and permission bits, so door controllers can
// authorize a card offline without a registry round-trip.
//
// Ed25519 is the default signing method; HS256 is available for deployments
// that already share a symmetric secret with their controllers. Verification
// re-validates the embedded permission bits through permission.FromBits, so a
// grant can never smuggle unrecognized capabilities past the bitmask
// contract.
//
// # What this package must NOT do
//
//   - Import cardgate (the root package wires a [Manager] into the registry,
//     not the other way around).
//   - Accept a grant whose permission mask carries unknown bits.
package token
