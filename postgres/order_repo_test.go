package postgres

import (
	"context"
	"testing"

	"github.com/joshjon/kit/errtag"
	"github.com/joshjon/kit/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ospoc/ospoc/order"
)

func TestOrderRepository(t *testing.T) {
	suite.Run(t, &order.RepositoryTestSuite{
		Setup: func(t *testing.T) order.Repository {
			return NewOrderRepository(setupTestDB(t))
		},
	})
}

func TestStore_UpsertOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), testTimeout)
	defer cancel()

	pool := setupTestDB(t)
	store := order.NewStore(NewTxer(pool), NewOrderRepository(pool))

	orderID := id.New[order.OrderID]()
	_, err := store.UpsertOrder(ctx, orderID, order.Fields{ProjectName: "alpha", Environment: "dev"})
	require.NoError(t, err)

	updated, err := store.UpsertOrder(ctx, orderID, order.Fields{ProjectName: "beta", Environment: "prod"})
	require.NoError(t, err)
	assert.Equal(t, "dev", updated.Environment)

	got, err := store.ReadOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, store.DeleteOrder(ctx, orderID))
	_, err = store.ReadOrder(ctx, orderID)
	assert.True(t, errtag.HasTag[errtag.NotFound](err))
}

