package mongo

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/retry"
)

// New connects and pings the server, retrying with a constant interval.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*mongo.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if log == nil {
		log = slog.Default()
	}

	clientOpts := options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryReads(cfg.RetryReads)

	policy := retry.Policy{
		MaxAttempts: max(cfg.RetryAttempts, 1),
		Backoff:     retry.Constant(cfg.RetryInterval),
		OnAttempt: func(a retry.Attempt) {
			if !a.Succeeded() {
				log.LogAttrs(ctx, slog.LevelWarn, "mongo not ready",
					logger.Component("mongo"),
					logger.Attempt(a.Number),
					logger.Error(a.Err),
				)
			}
		},
	}
	out := retry.Do(ctx, policy, func(ctx context.Context, _ int) (*mongo.Client, error) {
		client, err := mongo.Connect(clientOpts)
		if err != nil {
			// Invalid options will not improve on retry.
			return nil, retry.Permanent(err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		return client, nil
	})
	if !out.Succeeded() {
		return nil, errors.Join(ErrFailedToConnectToMongo, out.Err)
	}
	return out.Value, nil
}

// NewWithDatabase connects and returns cfg.Database.
func NewWithDatabase(ctx context.Context, cfg Config, log *slog.Logger) (*mongo.Database, error) {
	client, err := New(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}
