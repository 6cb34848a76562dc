// Package pgstore implements notify.Storage on Postgres with pgx.
//
// A notification and its deliveries are written in one transaction. The
// schema ships with the package as goose migrations and is applied with
// Migrate:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err := pgstore.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//	storage := pgstore.New(pool)
//
// The store does not lock rows. The dispatcher serializes writers per
// notification, so one process per database is assumed.
package pgstore
