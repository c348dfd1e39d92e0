package push_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/push"
)

func TestMemoryRegistry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := push.NewMemoryRegistry()

	token, err := r.GetUserPushToken(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, r.SetUserPushToken(ctx, "u1", expoToken))
	token, _ = r.GetUserPushToken(ctx, "u1")
	assert.Equal(t, expoToken, token)

	require.NoError(t, r.RemoveUserPushToken(ctx, "u1"))
	token, _ = r.GetUserPushToken(ctx, "u1")
	assert.Empty(t, token)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRegistry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("absent token is not an error", func(t *testing.T) {
		_, client := newRedis(t)
		token, err := push.NewRedisRegistry(client, "").GetUserPushToken(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("set and get", func(t *testing.T) {
		mr, client := newRedis(t)
		r := push.NewRedisRegistry(client, "")

		require.NoError(t, r.SetUserPushToken(ctx, "u1", expoToken, 0))

		stored, err := mr.Get("push_token:u1")
		require.NoError(t, err)
		assert.Equal(t, expoToken, stored)

		token, err := r.GetUserPushToken(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, expoToken, token)
	})

	t.Run("custom prefix and ttl", func(t *testing.T) {
		mr, client := newRedis(t)
		r := push.NewRedisRegistry(client, "devices:")

		require.NoError(t, r.SetUserPushToken(ctx, "u2", expoToken, time.Minute))
		assert.True(t, mr.Exists("devices:u2"))
		assert.Equal(t, time.Minute, mr.TTL("devices:u2"))

		mr.FastForward(2 * time.Minute)
		token, err := r.GetUserPushToken(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("empty token removes", func(t *testing.T) {
		mr, client := newRedis(t)
		r := push.NewRedisRegistry(client, "")

		require.NoError(t, r.SetUserPushToken(ctx, "u3", expoToken, 0))
		require.NoError(t, r.SetUserPushToken(ctx, "u3", "", 0))
		assert.False(t, mr.Exists("push_token:u3"))
	})

	t.Run("backend failure", func(t *testing.T) {
		mr, client := newRedis(t)
		mr.SetError("ERR backend unavailable")

		_, err := push.NewRedisRegistry(client, "").GetUserPushToken(ctx, "u1")
		assert.ErrorIs(t, err, push.ErrRegistryFailed)
	})
}
