// Package card defines the access card value type and its wire codec.
//
// A [Card] pairs a 16-bit identity with a [permission.Set]. Cards are
// immutable values: changing permissions means constructing a replacement
// Card, never mutating one in place.
//
// # Wire format
//
// The only persisted or transmitted representation is a two-field JSON
// object, e.g. {"id":7,"permissions":2}. [Card.Encode] never fails for a
// constructed Card; [Decode] is the single recovery point for externally
// supplied bytes and rejects malformed structure, wrong field types, extra
// fields, and permission bits outside the recognized set with a
// [*ConversionError] carrying the offending buffer.
//
// # What this package must NOT do
//
//   - Perform I/O. Hardware and Redis traffic belong to the backends in the
//     cardgate root package.
//   - Accept unrecognized permission bits through any path.
package card
