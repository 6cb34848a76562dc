package pgstore

import (
	"context"
	"embed"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/courier/pkg/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsDir is the directory of the embedded migrations.
const MigrationsDir = "migrations"

// Migrate applies the embedded schema. cfg.MigrationsPath is ignored; the
// table name and the rest of cfg are honored.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	cfg.MigrationsPath = MigrationsDir
	return pg.Migrate(ctx, pool, cfg, log, pg.WithMigrationsFS(migrations))
}
