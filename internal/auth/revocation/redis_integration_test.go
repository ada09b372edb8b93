//go:build integration

package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyckaro/internal/auth/revocation"
	"kyckaro/pkg/testutil/containers"
)

func TestRedisRevocation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	store := revocation.NewRedis(rc.Client)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	t.Run("entry expires with its TTL", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-short", time.Second))
		require.Eventually(t, func() bool {
			revoked, err := store.IsRevoked(ctx, "jti-short")
			return err == nil && !revoked
		}, 5*time.Second, 100*time.Millisecond)
	})

	t.Run("non-positive ttl writes nothing", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-expired", -time.Minute))
		revoked, err := store.IsRevoked(ctx, "jti-expired")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
