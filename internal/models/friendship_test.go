package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	lo, hi := CanonicalPair(b, a)
	assert.Equal(t, a, lo)
	assert.Equal(t, b, hi)

	lo, hi = CanonicalPair(a, b)
	assert.Equal(t, a, lo)
	assert.Equal(t, b, hi)

	// byte order and lowercase string order agree
	assert.Less(t, lo.String(), hi.String())
}

func TestNewFriendshipIgnoresRequestDirection(t *testing.T) {
	a := uuid.MustParse("0f000000-0000-0000-0000-000000000000")
	b := uuid.MustParse("f0000000-0000-0000-0000-000000000000")

	assert.Equal(t, NewFriendship(a, b), NewFriendship(b, a))

	f := NewFriendship(b, a)
	assert.Equal(t, a, f.UserID1)
	assert.Equal(t, b, f.UserID2)
}

func TestFriendshipBeforeCreateReorders(t *testing.T) {
	a := uuid.MustParse("0f000000-0000-0000-0000-000000000000")
	b := uuid.MustParse("f0000000-0000-0000-0000-000000000000")

	f := Friendship{UserID1: b, UserID2: a}
	assert.NoError(t, f.BeforeCreate(nil))
	assert.Equal(t, a, f.UserID1)
	assert.Equal(t, b, f.UserID2)
}

func TestFriendshipFriend(t *testing.T) {
	a := User{ID: uuid.MustParse("0f000000-0000-0000-0000-000000000000"), Username: "alice"}
	b := User{ID: uuid.MustParse("f0000000-0000-0000-0000-000000000000"), Username: "bob"}
	f := Friendship{UserID1: a.ID, UserID2: b.ID, User1: a, User2: b}

	assert.Equal(t, "bob", f.Friend(a.ID).Username)
	assert.Equal(t, "alice", f.Friend(b.ID).Username)
}
