package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingChecker struct {
	members map[string]bool
	calls   int
}

func (c *countingChecker) IsMember(_ context.Context, beneficiaryID, projectID string) (bool, error) {
	c.calls++
	return c.members[beneficiaryID+"|"+projectID], nil
}

func setup(t *testing.T) (*Membership, *countingChecker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	checker := &countingChecker{members: map[string]bool{"ben-1|proj-1": true}}
	return NewMembership(client, checker), checker, mr
}

func TestMembershipReadThrough(t *testing.T) {
	ctx := context.Background()
	cache, checker, _ := setup(t)

	t.Run("miss hits the store and caches", func(t *testing.T) {
		ok, err := cache.IsMember(ctx, "ben-1", "proj-1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, checker.calls)

		ok, err = cache.IsMember(ctx, "ben-1", "proj-1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, checker.calls, "second lookup must come from redis")
	})

	t.Run("negative answers are cached too", func(t *testing.T) {
		before := checker.calls
		ok, err := cache.IsMember(ctx, "ben-2", "proj-1")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = cache.IsMember(ctx, "ben-2", "proj-1")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, before+1, checker.calls)
	})
}

func TestMembershipExpiry(t *testing.T) {
	ctx := context.Background()
	cache, checker, mr := setup(t)

	_, err := cache.IsMember(ctx, "ben-1", "proj-1")
	require.NoError(t, err)
	require.Equal(t, 1, checker.calls)

	mr.FastForward(membershipTTL + time.Second)

	_, err = cache.IsMember(ctx, "ben-1", "proj-1")
	require.NoError(t, err)
	assert.Equal(t, 2, checker.calls, "expired entry must go back to the store")
}

func TestMembershipInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, checker, _ := setup(t)

	_, err := cache.IsMember(ctx, "ben-1", "proj-1")
	require.NoError(t, err)

	// membership revoked out-of-band
	checker.members = map[string]bool{}
	require.NoError(t, cache.Invalidate(ctx, "ben-1", "proj-1"))

	ok, err := cache.IsMember(ctx, "ben-1", "proj-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMembershipRedisDown(t *testing.T) {
	ctx := context.Background()
	cache, checker, mr := setup(t)
	mr.Close()

	ok, err := cache.IsMember(ctx, "ben-1", "proj-1")
	require.NoError(t, err, "redis outage must not fail the lookup")
	assert.True(t, ok)
	assert.Equal(t, 1, checker.calls)
}
