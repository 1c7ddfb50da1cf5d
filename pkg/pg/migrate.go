package pg

import (
	"context"
	"errors"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3/database"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/migrations"
)

// Migrate applies the embedded goose migrations in fsys through a
// database/sql view of the pool. Pass migrations.Postgres() for the
// parking schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, cfg Config, log logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", "error", err)
		}
	}()

	if err := migrations.Up(ctx, db, database.DialectPostgres, fsys, cfg.MigrationsTable, log); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}
