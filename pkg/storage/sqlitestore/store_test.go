package sqlitestore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/sqlitestore"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/storetest"
)

func TestStoreConformance(t *testing.T) {
	t.Parallel()
	storetest.Run(t, func(t *testing.T) parking.Store { return storetest.SQLite(t) })
}

func TestNew_NilDB(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() { sqlitestore.New(nil) })
}
