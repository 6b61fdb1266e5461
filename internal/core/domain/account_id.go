package domain

import (
	"strings"
	"unique"
)

// AccountID is a value object that identifies one account on the network (a DID).
// It wraps a unique.Handle[string] because the same identifiers repeat across
// many relationship lists during a crawl.
type AccountID struct {
	h unique.Handle[string]
}

// NewAccountID creates a new AccountID from a string.
// It uses the unique package to intern the string.
func NewAccountID(s string) AccountID {
	return AccountID{
		h: unique.Make(s),
	}
}

// String returns the underlying string value.
func (id AccountID) String() string {
	var zero unique.Handle[string]
	if id.h == zero {
		return ""
	}
	return id.h.Value()
}

// IsZero reports whether the identifier was never set or is empty.
func (id AccountID) IsZero() bool {
	return id.String() == ""
}

// Compare orders identifiers by their string value.
func (id AccountID) Compare(other AccountID) int {
	return strings.Compare(id.String(), other.String())
}

// MarshalText implements encoding.TextMarshaler.
func (id AccountID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *AccountID) UnmarshalText(text []byte) error {
	id.h = unique.Make(string(text))
	return nil
}

// NewAccountIDs interns every string in ss.
func NewAccountIDs(ss ...string) []AccountID {
	ids := make([]AccountID, len(ss))
	for i, s := range ss {
		ids[i] = NewAccountID(s)
	}
	return ids
}
