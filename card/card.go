package card

import (
	"fmt"

	"github.com/cardgate/cardgate/permission"
)

// Card is an access token record: a registry-unique 16-bit identity plus an
// immutable permission set. Cards are comparable values; two Cards are equal
// iff both fields are equal.
type Card struct {
	id          uint16
	permissions permission.Set
}

// New constructs a Card. Capability bits outside the recognized set cannot
// enter a Card: New keeps recognized bits only, so every constructed Card is
// encodable by contract.
func New(id uint16, permissions permission.Set) Card {
	return Card{
		id:          id,
		permissions: permissions.Intersect(permission.All()),
	}
}

// Default returns the Card issued to new holders: id 0 with the Regular
// capability.
func Default() Card {
	return New(0, permission.Regular)
}

// ID returns the card identity.
func (c Card) ID() uint16 {
	return c.id
}

// Permissions returns the card's permission set.
func (c Card) Permissions() permission.Set {
	return c.permissions
}

// Is reports whether this card holds every requested capability.
func (c Card) Is(permissions permission.Set) bool {
	return c.permissions.Contains(permissions)
}

// WithPermissions returns a replacement Card with the same identity and the
// given permission set.
func (c Card) WithPermissions(permissions permission.Set) Card {
	return New(c.id, permissions)
}

func (c Card) String() string {
	return fmt.Sprintf("Card{id: %d, permissions: %s}", c.id, c.permissions)
}
