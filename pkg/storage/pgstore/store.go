// Package pgstore implements the parking persistence boundary on PostgreSQL
// with pgx/v5.
package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/pg"
)

var (
	ErrBeginTx    = errors.New("failed to begin transaction")
	ErrCommitTx   = errors.New("failed to commit transaction")
	ErrRollbackTx = errors.New("failed to roll back transaction")
)

const activeSpaceIndex = "sessions_active_space_uidx"

// dbtx is the subset shared by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	*queries
	pool *pgxpool.Pool
}

var _ parking.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("pgstore: pool is required")
	}
	return &Store{queries: &queries{db: pool}, pool: pool}
}

// InTx runs fn in a read-committed transaction. The deferred rollback
// also covers panics.
func (s *Store) InTx(ctx context.Context, fn func(tx parking.Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Join(ErrBeginTx, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&queries{db: tx}); err != nil {
		return rollback(ctx, tx, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitTx, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

type queries struct {
	db dbtx
}

// rollback aborts tx after fn failed with cause. A transaction the server
// already closed is not a second failure.
func rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	if err := tx.Rollback(ctx); err != nil && !pg.IsTxClosedError(err) {
		return errors.Join(cause, ErrRollbackTx, err)
	}
	return cause
}

// constraintErr maps integrity violations raised by a write. The partial
// unique indexes on active sessions surface as ErrConflict; CHECK and
// FOREIGN KEY failures mean the caller let an invalid row through.
func constraintErr(err error) error {
	switch {
	case pg.IsDuplicateKeyError(err) && pg.ConstraintName(err) == activeSpaceIndex:
		return errors.Join(parking.ErrConflict, parking.ErrSpaceConflict, err)
	case pg.IsDuplicateKeyError(err):
		return errors.Join(parking.ErrConflict, err)
	case pg.IsCheckViolationError(err), pg.IsForeignKeyViolationError(err):
		return errors.Join(parking.ErrIntegrityViolation, err)
	}
	return err
}

func notFound(err error) error {
	if pg.IsNotFoundError(err) {
		return parking.ErrNotFound
	}
	return err
}

func stringSlice[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
