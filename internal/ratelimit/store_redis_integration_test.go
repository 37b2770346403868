//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"degreeaudit/pkg/testutil/containers"
)

func TestRedisStoreSlidingWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	now := time.Now()
	s := NewRedisStore(rc.Client)
	s.now = func() time.Time { return now }

	for range 2 {
		res, err := s.Allow(ctx, "sub:advisor", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		now = now.Add(time.Second)
	}

	res, err := s.Allow(ctx, "sub:advisor", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	card, err := rc.Client.ZCard(ctx, redisKeyPrefix+"sub:advisor").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), card, "denied requests are withdrawn")

	now = now.Add(time.Minute)
	res, err = s.Allow(ctx, "sub:advisor", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
