package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

const DefaultTable = "schema_migrations"

var ErrMigrationFailed = errors.New("failed to apply migrations")

// Logger is satisfied by *slog.Logger.
type Logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
}

// Up applies every pending migration in fsys and logs each applied version.
// A scoped goose provider is used so concurrent callers never share state.
func Up(ctx context.Context, db *sql.DB, dialect database.Dialect, fsys fs.FS, table string, log Logger) error {
	if table == "" {
		table = DefaultTable
	}

	store, err := database.NewStore(dialect, table)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	provider, err := goose.NewProvider("", db, fsys, goose.WithStore(store))
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"file", r.Source.Path,
			"duration", r.Duration,
		)
	}
	return nil
}
