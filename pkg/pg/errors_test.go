package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/pg"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, pg.IsDuplicateKeyError(dup))
	assert.False(t, pg.IsDuplicateKeyError(fk))
	assert.False(t, pg.IsDuplicateKeyError(nil))

	assert.True(t, pg.IsForeignKeyViolationError(fk))
	assert.False(t, pg.IsForeignKeyViolationError(check))

	assert.True(t, pg.IsCheckViolationError(check))
	assert.False(t, pg.IsCheckViolationError(errors.New("23514")))

	assert.True(t, pg.IsNotFoundError(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(nil))

	assert.True(t, pg.IsTxClosedError(pgx.ErrTxClosed))
	assert.False(t, pg.IsTxClosedError(dup))
}

func TestConstraintName(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("insert session: %w", &pgconn.PgError{Code: "23505", ConstraintName: "sessions_active_space_uidx"})
	assert.Equal(t, "sessions_active_space_uidx", pg.ConstraintName(err))
	assert.Empty(t, pg.ConstraintName(errors.New("boom")))
	assert.Empty(t, pg.ConstraintName(nil))
}
