package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mutuals/internal/core/domain"
)

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "followers", domain.Followers.String())
	assert.Equal(t, "following", domain.Following.String())
	assert.Equal(t, "unknown", domain.Direction(7).String())
	assert.False(t, domain.Direction(7).Valid())
}

func TestRelationshipList(t *testing.T) {
	ids := domain.NewAccountIDs("b", "a", "c")
	list := domain.NewRelationshipList(ids)

	// Mutating the input must not affect the list.
	ids[0] = domain.NewAccountID("z")

	assert.Equal(t, 3, list.Len())
	assert.True(t, list.Contains(domain.NewAccountID("b")))
	assert.False(t, list.Contains(domain.NewAccountID("z")))
	assert.Equal(t, domain.NewAccountIDs("b", "a", "c"), slices.Collect(list.All()))
}

func TestRelationshipList_Intersect(t *testing.T) {
	followers := domain.NewRelationshipList(domain.NewAccountIDs("A", "B", "C"))
	following := domain.NewRelationshipList(domain.NewAccountIDs("D", "C", "B"))

	assert.Equal(t, domain.NewAccountIDs("B", "C"), followers.Intersect(following))
	assert.Equal(t, domain.NewAccountIDs("B", "C"), following.Intersect(followers))
}

func TestRelationshipList_IntersectDuplicatesAndEmpty(t *testing.T) {
	withDupes := domain.NewRelationshipList(domain.NewAccountIDs("A", "A", "B"))
	other := domain.NewRelationshipList(domain.NewAccountIDs("A"))

	assert.Equal(t, domain.NewAccountIDs("A"), withDupes.Intersect(other))
	assert.Empty(t, withDupes.Intersect(domain.NewRelationshipList(nil)))
}

func TestProfile_Label(t *testing.T) {
	id := domain.NewAccountID("did:plc:x")

	assert.Equal(t, "Xavier", domain.Profile{ID: id, DisplayName: "Xavier"}.Label())
	assert.Equal(t, "did:plc:x", domain.Profile{ID: id}.Label())
}
