package push

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRegistry keeps one token per user under "<prefix><userID>".
type RedisRegistry struct {
	db     redis.UniversalClient
	prefix string
}

// NewRedisRegistry uses prefix "push_token:" when prefix is empty.
func NewRedisRegistry(db redis.UniversalClient, prefix string) *RedisRegistry {
	if prefix == "" {
		prefix = "push_token:"
	}
	return &RedisRegistry{db: db, prefix: prefix}
}

func (r *RedisRegistry) key(userID string) string {
	return r.prefix + userID
}

func (r *RedisRegistry) GetUserPushToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	token, err := r.db.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Join(ErrRegistryFailed, err)
	}
	return token, nil
}

// SetUserPushToken stores token; ttl of zero keeps it until removed.
func (r *RedisRegistry) SetUserPushToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	if token == "" {
		return r.RemoveUserPushToken(ctx, userID)
	}
	if err := r.db.Set(ctx, r.key(userID), token, ttl).Err(); err != nil {
		return errors.Join(ErrRegistryFailed, err)
	}
	return nil
}

func (r *RedisRegistry) RemoveUserPushToken(ctx context.Context, userID string) error {
	if err := r.db.Del(ctx, r.key(userID)).Err(); err != nil {
		return errors.Join(ErrRegistryFailed, err)
	}
	return nil
}
