// Package pg bootstraps PostgreSQL access with pgx/v5: a retrying pool
// constructor, goose migrations over the same pool, a health check closure
// and helpers that classify *pgconn.PgError values.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.Postgres(), cfg, slog.Default()); err != nil {
//	    return err
//	}
package pg
