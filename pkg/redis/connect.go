package redis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/retry"
)

// Connect parses cfg.ConnectionURL and pings the server until it answers,
// cfg.RetryAttempts runs out or cfg.ConnectTimeout elapses.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	if log == nil {
		log = slog.Default()
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	policy := retry.Policy{
		MaxAttempts: max(cfg.RetryAttempts, 1),
		Backoff:     retry.Constant(cfg.RetryInterval),
		OnAttempt: func(a retry.Attempt) {
			if !a.Succeeded() {
				log.LogAttrs(ctx, slog.LevelWarn, "redis not ready",
					logger.Component("redis"),
					logger.Attempt(a.Number),
					logger.Error(a.Err),
				)
			}
		},
	}
	out := retry.Do(ctx, policy, func(ctx context.Context, _ int) (*redis.Client, error) {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, err
		}
		return client, nil
	})
	if !out.Succeeded() {
		return nil, errors.Join(ErrRedisNotReady, out.Err)
	}
	return out.Value, nil
}
