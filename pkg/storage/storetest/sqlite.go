package storetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/sqlite"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/migrations"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/sqlitestore"
)

// SQLite returns a migrated store backed by a database file in a temporary
// directory that is removed with the test.
func SQLite(t testing.TB) *sqlitestore.Store {
	t.Helper()
	ctx := context.Background()
	cfg := sqlite.Config{
		Path:        filepath.Join(t.TempDir(), "parking.db"),
		BusyTimeout: 5 * time.Second,
	}

	db, err := sqlite.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.Migrate(ctx, db, migrations.SQLite(), cfg, logger.Discard()))
	return sqlitestore.New(db)
}
