package permission

import "errors"

// Set is an immutable bitmask of named card capabilities. The zero value
// carries no capabilities. All operations return new values; a Set is never
// mutated in place.
type Set uint8

const (
	// None marks a card that has been issued but grants nothing.
	None Set = 1 << iota
	// Regular is the baseline capability for ordinary cards.
	Regular
	// ITSupport grants access to IT support systems.
	ITSupport
	// OpenDoors grants operation of the door systems.
	OpenDoors
	// Admin bypasses everything except SuperAdmin-restricted systems.
	Admin
	// SuperAdmin bypasses everything.
	SuperAdmin

	setMask = None | Regular | ITSupport | OpenDoors | Admin | SuperAdmin
)

// ErrUnknownBits is returned by [FromBits] when a raw mask carries bits
// outside the six recognized capabilities.
var ErrUnknownBits = errors.New("permission mask contains unknown bits")

// All returns the set of every recognized capability, None included.
func All() Set {
	return setMask
}

// Privileged returns every capability except [None]. It is derived, never
// stored.
func Privileged() Set {
	return All().Difference(None)
}

// FromBits validates a raw mask received from the outside world. It is the
// single entry point for untrusted bit patterns; any bit outside the six
// recognized capabilities fails with [ErrUnknownBits].
func FromBits(bits uint8) (Set, error) {
	if Set(bits)&^setMask != 0 {
		return 0, ErrUnknownBits
	}
	return Set(bits), nil
}

// Bits returns the raw mask for wire encoding.
func (s Set) Bits() uint8 {
	return uint8(s)
}

// Valid reports whether the set carries only recognized capability bits.
// Sets built from the exported constants are always valid; Valid exists for
// defense at trust boundaries.
func (s Set) Valid() bool {
	return s&^setMask == 0
}

// Contains reports whether every capability in other is present in s.
func (s Set) Contains(other Set) bool {
	return s&other == other
}

// Union returns the capabilities present in either set.
func (s Set) Union(other Set) Set {
	return s | other
}

// Intersect returns the capabilities present in both sets.
func (s Set) Intersect(other Set) Set {
	return s & other
}

// Difference returns the capabilities of s that are absent from other.
func (s Set) Difference(other Set) Set {
	return s &^ other
}

// SymmetricDifference returns the capabilities present in exactly one of the
// two sets.
func (s Set) SymmetricDifference(other Set) Set {
	return s ^ other
}

// IsEmpty reports whether the set carries no capabilities at all. Note that
// a set holding only [None] is not empty: None is a real bit on the wire.
func (s Set) IsEmpty() bool {
	return s == 0
}
