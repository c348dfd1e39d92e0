package pg

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/retry"
)

// Connect opens a pool and pings it, retrying with exponential backoff
// until cfg.RetryAttempts is spent.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MaxIdleConns
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	if log == nil {
		log = slog.Default()
	}
	policy := retry.Policy{
		MaxAttempts: max(cfg.RetryAttempts, 1),
		Backoff:     retry.Exponential{Initial: cfg.RetryInterval, Multiplier: 2},
		OnAttempt: func(a retry.Attempt) {
			if !a.Succeeded() {
				log.LogAttrs(ctx, slog.LevelWarn, "postgres not ready",
					logger.Component("pg"),
					logger.Attempt(a.Number),
					logger.Error(a.Err),
				)
			}
		},
	}

	out := retry.Do(ctx, policy, func(ctx context.Context, _ int) (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	})
	if !out.Succeeded() {
		return nil, errors.Join(ErrFailedToOpenDBConnection, out.Err)
	}
	return out.Value, nil
}
