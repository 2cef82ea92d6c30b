package permission

import (
	"errors"
	"strings"
)

// capability name table, ordered by bit position. The names are part of the
// diagnostic surface (audit events, String output) but not of the wire
// format, which carries raw bits only.
var names = [...]struct {
	flag Set
	name string
}{
	{None, "none"},
	{Regular, "regular"},
	{ITSupport, "it_support"},
	{OpenDoors, "open_doors"},
	{Admin, "admin"},
	{SuperAdmin, "super_admin"},
}

// ErrUnknownName is returned by [ParseName] for a name outside the capability
// table.
var ErrUnknownName = errors.New("unknown permission name")

// ParseName resolves a capability name to its single-bit Set.
func ParseName(name string) (Set, error) {
	for _, entry := range names {
		if entry.name == name {
			return entry.flag, nil
		}
	}
	return 0, ErrUnknownName
}

// Names returns the names of the capabilities present in s, ordered by bit
// position.
func (s Set) Names() []string {
	out := make([]string, 0, len(names))
	for _, entry := range names {
		if s.Contains(entry.flag) {
			out = append(out, entry.name)
		}
	}
	return out
}

// String renders the set for diagnostics, e.g. "regular|open_doors".
func (s Set) String() string {
	if s == 0 {
		return "(empty)"
	}
	return strings.Join(s.Names(), "|")
}
