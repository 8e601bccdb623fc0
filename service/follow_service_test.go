package service_test

import (
	"testing"

	"warbler/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFollowing(t *testing.T) {
	users, db := newUserService(t)
	u1, u2 := seedPair(t, users)
	follows := service.NewFollowService(db)

	// No edge yet in either direction.
	ok, err := follows.IsFollowing(u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = follows.IsFollowedBy(u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, follows.Follow(u1.ID, u2.ID))

	ok, err = follows.IsFollowing(u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFollowAsymmetry(t *testing.T) {
	users, db := newUserService(t)
	u1, u2 := seedPair(t, users)
	follows := service.NewFollowService(db)

	// u2 follows u1.
	require.NoError(t, follows.Follow(u2.ID, u1.ID))

	ok, err := follows.IsFollowedBy(u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, ok, "u1 should be followed by u2")

	ok, err = follows.IsFollowing(u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edge is directed; u1 does not follow u2")
}

func TestFollowIdempotent(t *testing.T) {
	users, db := newUserService(t)
	u1, u2 := seedPair(t, users)
	follows := service.NewFollowService(db)

	require.NoError(t, follows.Follow(u1.ID, u2.ID))
	require.NoError(t, follows.Follow(u1.ID, u2.ID), "re-follow is a no-op, not an error")

	followers, err := follows.Followers(u2.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, u1.ID, followers[0].ID)
}

func TestUnfollow(t *testing.T) {
	users, db := newUserService(t)
	u1, u2 := seedPair(t, users)
	follows := service.NewFollowService(db)

	require.NoError(t, follows.Follow(u1.ID, u2.ID))
	require.NoError(t, follows.Unfollow(u1.ID, u2.ID))

	ok, err := follows.IsFollowing(u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unfollowing a missing edge is also a no-op.
	require.NoError(t, follows.Unfollow(u1.ID, u2.ID))
}

func TestSelfFollowRejected(t *testing.T) {
	users, db := newUserService(t)
	u1, _ := seedPair(t, users)
	follows := service.NewFollowService(db)

	err := follows.Follow(u1.ID, u1.ID)
	assert.ErrorIs(t, err, service.ErrSelfFollow)
}

func TestFollowingAndFollowersLists(t *testing.T) {
	users, db := newUserService(t)
	u1, u2 := seedPair(t, users)
	u3, err := users.Signup("u3", "u3@email.com", "password", "")
	require.NoError(t, err)
	follows := service.NewFollowService(db)

	require.NoError(t, follows.Follow(u1.ID, u2.ID))
	require.NoError(t, follows.Follow(u1.ID, u3.ID))
	require.NoError(t, follows.Follow(u3.ID, u2.ID))

	following, err := follows.Following(u1.ID)
	require.NoError(t, err)
	assert.Len(t, following, 2)

	followers, err := follows.Followers(u2.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	ids := []uint{followers[0].ID, followers[1].ID}
	assert.ElementsMatch(t, []uint{u1.ID, u3.ID}, ids)
}
