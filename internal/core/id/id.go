// Package id generates the UUIDv7 identifiers used by every entity.
// Time-ordered ids keep B-tree inserts append-mostly and make id order
// a usable tiebreaker for rows created in the same transaction.
package id

import "github.com/google/uuid"

// ID is the identifier type shared by all entities.
type ID = uuid.UUID

// New returns a new time-ordered id.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the entropy source does; fall back to
		// random rather than propagating an error nothing can handle.
		return uuid.New()
	}
	return v7
}

// Parse validates and converts a string id.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string id, panicking on malformed input. For
// fixtures and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero id.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the id is the zero value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
