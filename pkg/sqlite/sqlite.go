package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3/database"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/migrations"
)

// logger is satisfied by *slog.Logger.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
}

// DSN builds a modernc.org/sqlite data source with foreign keys, WAL,
// a busy timeout and write-locking transactions.
func DSN(cfg Config) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	q.Set("_txlock", "immediate")
	return filepath.Clean(cfg.Path) + "?" + q.Encode()
}

// Open opens the database file and verifies it with a ping. A single
// connection is kept so writers queue instead of failing with SQLITE_BUSY.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, ErrEmptyPath
	}

	db, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, errors.Join(ErrFailedToOpen, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrFailedToOpen, err)
	}
	return db, nil
}

// Migrate applies the goose migrations in fsys. Pass migrations.SQLite()
// for the parking schema.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, cfg Config, log logger) error {
	if err := migrations.Up(ctx, db, database.DialectSQLite3, fsys, cfg.MigrationsTable, log); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// Healthcheck returns a readiness probe that pings the database.
func Healthcheck(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// IsUniqueViolation reports UNIQUE and PRIMARY KEY constraint failures.
func IsUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// IsConstraintViolation reports any constraint failure, CHECK and
// FOREIGN KEY included.
func IsConstraintViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT
}
