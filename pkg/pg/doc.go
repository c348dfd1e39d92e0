// Package pg bootstraps a PostgreSQL connection pool on pgx/v5 and applies
// goose migrations from an embedded filesystem.
//
//	pool, err := pg.Connect(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations, "migrations", cfg, log); err != nil {
//	    return err
//	}
//
// Connect retries through the retry package with exponential backoff starting
// at cfg.RetryInterval. Healthcheck returns a probe suitable for readiness
// endpoints. IsNotFoundError and IsDuplicateKeyError classify driver errors.
package pg
