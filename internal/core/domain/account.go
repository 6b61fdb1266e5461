// Package domain contains the core domain models for the mutual-follow social graph.
package domain

import (
	"iter"
	"slices"
)

// Direction selects which side of an account's relationships is queried.
type Direction int

const (
	// Followers lists the accounts that follow the subject.
	Followers Direction = iota
	// Following lists the accounts the subject follows.
	Following
)

// String returns the string representation of the Direction.
func (d Direction) String() string {
	switch d {
	case Followers:
		return "followers"
	case Following:
		return "following"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == Followers || d == Following
}

// RelationshipList is the complete, ordered list of accounts on one side of an
// account's relationships as of fetch time. It is immutable once built.
type RelationshipList struct {
	ids   []AccountID
	index map[AccountID]struct{}
}

// NewRelationshipList builds a list from ids. The slice is copied.
func NewRelationshipList(ids []AccountID) RelationshipList {
	owned := slices.Clone(ids)
	index := make(map[AccountID]struct{}, len(owned))
	for _, id := range owned {
		index[id] = struct{}{}
	}
	return RelationshipList{ids: owned, index: index}
}

// Len returns the number of entries in the list, duplicates included.
func (l RelationshipList) Len() int {
	return len(l.ids)
}

// Contains reports whether id appears in the list.
func (l RelationshipList) Contains(id AccountID) bool {
	_, ok := l.index[id]
	return ok
}

// All yields the identifiers in fetch order.
func (l RelationshipList) All() iter.Seq[AccountID] {
	return slices.Values(l.ids)
}

// IDs returns a copy of the identifiers in fetch order.
func (l RelationshipList) IDs() []AccountID {
	return slices.Clone(l.ids)
}

// Intersect returns the distinct identifiers present in both lists, sorted by
// identifier so that callers get a stable enumeration.
func (l RelationshipList) Intersect(other RelationshipList) []AccountID {
	small, large := l, other
	if len(large.index) < len(small.index) {
		small, large = large, small
	}

	out := make([]AccountID, 0, len(small.index))
	for id := range small.index {
		if large.Contains(id) {
			out = append(out, id)
		}
	}
	slices.SortFunc(out, AccountID.Compare)
	return out
}

// Profile holds the display metadata of an account.
type Profile struct {
	ID          AccountID
	Handle      string
	DisplayName string
}

// Label returns the display name, falling back to the identifier when the
// display name is empty.
func (p Profile) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID.String()
}

// Page is one page of a cursor-paginated relationship query.
// An empty Cursor marks the last page.
type Page struct {
	Items  []AccountID
	Cursor string
}
