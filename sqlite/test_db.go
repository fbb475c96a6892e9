package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ospoc/ospoc/order"
	"github.com/ospoc/ospoc/sqlite/migrations"
)

// NewTestOrderStore returns an order.Store backed by a migrated in-memory
// database that is closed when the test ends.
func NewTestOrderStore(t *testing.T) *order.Store {
	t.Helper()
	db := NewTestDB(t)
	return order.NewStore(NewTxer(db), NewOrderRepository(db))
}

func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()

	db, err := Open(ctx, WithInMemory())
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	err = MigrateDatabase(db, migrations.FS)
	require.NoError(t, err)
	return db
}
