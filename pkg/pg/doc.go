// Package pg bootstraps PostgreSQL access on top of github.com/jackc/pgx/v5.
//
// Config is populated from PG_* environment variables. Connect opens a
// *pgxpool.Pool and retries until the database answers a ping. Migrate runs
// github.com/pressly/goose/v3 migrations through the same pool, either from a
// directory on disk or from an embedded filesystem:
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, cfg, log, pg.WithMigrationsFS(migrations)); err != nil {
//	    return err
//	}
//
// Healthcheck adapts the pool to a readiness probe, and IsNotFoundError,
// IsDuplicateKeyError and IsForeignKeyViolationError classify driver errors.
package pg
