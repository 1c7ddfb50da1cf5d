// Package sqlitestore implements the parking persistence boundary on SQLite.
// Timestamps are stored as UTC unix microseconds.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/sqlite"
)

var (
	ErrBeginTx  = errors.New("failed to begin transaction")
	ErrCommitTx = errors.New("failed to commit transaction")
)

// execer is the subset shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists parking state in SQLite.
type Store struct {
	*queries
	db *sql.DB
}

var _ parking.Store = (*Store)(nil)

// New wraps an opened and migrated database, see the sqlite package.
func New(db *sql.DB) *Store {
	if db == nil {
		panic("sqlitestore: db is required")
	}
	return &Store{queries: &queries{db: db}, db: db}
}

// InTx runs fn inside BEGIN IMMEDIATE when the DSN sets _txlock=immediate.
func (s *Store) InTx(ctx context.Context, fn func(tx parking.Queries) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&queries{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(ErrCommitTx, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// queries implements parking.Queries against a DB or a Tx.
type queries struct {
	db execer
}

// constraintErr maps integrity violations raised by a write. SQLite names
// the offending columns rather than the index, so the active-space index
// is recognized by its column.
func constraintErr(err error) error {
	switch {
	case sqlite.IsUniqueViolation(err) && strings.Contains(err.Error(), "sessions.space_id"):
		return errors.Join(parking.ErrConflict, parking.ErrSpaceConflict, err)
	case sqlite.IsUniqueViolation(err):
		return errors.Join(parking.ErrConflict, err)
	case sqlite.IsConstraintViolation(err):
		return errors.Join(parking.ErrIntegrityViolation, err)
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return parking.ErrNotFound
	}
	return err
}
