package order

import (
	"context"
	"testing"
	"time"

	"github.com/joshjon/kit/errtag"
	"github.com/joshjon/kit/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ospoc/ospoc/internal/testutil"
	"github.com/ospoc/ospoc/tx"
)

const testTimeout = 5 * time.Second

func newTestStore(t *testing.T) (*Store, *testutil.FakeTxer) {
	t.Helper()
	txer := new(testutil.FakeTxer)
	return NewStore(txer, NewFakeRepository(t)), txer
}

func TestStore_UpsertOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), testTimeout)
	defer cancel()
	s, txer := newTestStore(t)

	existing := genOrder()
	existing.Environment = "dev"
	require.NoError(t, s.CreateOrder(ctx, existing))

	fields := genFields()
	fields.Environment = "prod"

	got, err := s.UpsertOrder(ctx, existing.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	assert.Equal(t, "dev", got.Environment)
	assert.Equal(t, fields.ProjectName, got.ProjectName)
	assert.Equal(t, fields.BusinessUnit, got.BusinessUnit)
	assert.Equal(t, fields.CostCode, got.CostCode)

	read, err := s.ReadOrder(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, got, read)
	assert.Equal(t, int32(1), txer.Commits.Load())
}

func TestStore_UpsertOrderCreatesMissing(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), testTimeout)
	defer cancel()
	s, txer := newTestStore(t)

	orderID := id.New[OrderID]()
	fields := genFields()

	got, err := s.UpsertOrder(ctx, orderID, fields)
	require.NoError(t, err)
	assert.Equal(t, &Order{ID: orderID, Fields: fields}, got)

	read, err := s.ReadOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, got, read)
	assert.Equal(t, int32(1), txer.Commits.Load())
}

// racingRepository creates the order with the raced ID just before the first
// read of it reports NotFound, like a concurrent upsert committing in between.
type racingRepository struct {
	*FakeRepository
	raced OrderID
	other *Order
	done  bool
}

func (r *racingRepository) ReadOrder(ctx context.Context, id OrderID) (*Order, error) {
	if id == r.raced && !r.done {
		r.done = true
		if err := r.FakeRepository.CreateOrder(ctx, r.other); err != nil {
			return nil, err
		}
		return nil, errtag.NewTagged[ErrTagNotFound]("order not found")
	}
	return r.FakeRepository.ReadOrder(ctx, id)
}

func (r *racingRepository) WithTx(_ tx.Tx) (Repository, error) {
	return r, nil
}

func TestStore_UpsertOrderConcurrentCreate(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), testTimeout)
	defer cancel()

	orderID := id.New[OrderID]()
	other := &Order{ID: orderID, Fields: genFields()}
	other.Environment = "dev"

	repo := &racingRepository{
		FakeRepository: NewFakeRepository(t),
		raced:          orderID,
		other:          other,
	}
	txer := new(testutil.FakeTxer)
	s := NewStore(txer, repo)

	fields := genFields()
	fields.Environment = "prod"

	got, err := s.UpsertOrder(ctx, orderID, fields)
	require.NoError(t, err)

	want := fields
	want.Environment = "dev"
	assert.Equal(t, &Order{ID: orderID, Fields: want}, got)

	read, err := s.ReadOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, got, read)
	assert.Equal(t, int32(1), txer.Rollbacks.Load())
	assert.Equal(t, int32(1), txer.Commits.Load())
}

func TestStore_ListOrders(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), testTimeout)
	defer cancel()
	s, txer := newTestStore(t)

	for range 5 {
		require.NoError(t, s.CreateOrder(ctx, genOrder()))
	}

	page, err := s.ListOrders(ctx, PageFilter{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(1), txer.ReadOnly.Load())
	assert.Equal(t, int32(1), txer.Commits.Load())
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, int64(3), page.TotalPages())
	assert.Equal(t, int32(1), page.Page)
	assert.Equal(t, int32(2), page.Size)

	page, err = s.ListOrders(ctx, PageFilter{Page: 10, Size: 2})
	require.NoError(t, err)
	assert.NotNil(t, page.Orders)
	assert.Empty(t, page.Orders)
	assert.Equal(t, int64(5), page.Total)
}

func TestStore_DeleteOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), testTimeout)
	defer cancel()
	s, _ := newTestStore(t)

	order := genOrder()
	require.NoError(t, s.CreateOrder(ctx, order))

	require.NoError(t, s.DeleteOrder(ctx, order.ID))
	require.NoError(t, s.DeleteOrder(ctx, order.ID))

	_, err := s.ReadOrder(ctx, order.ID)
	assert.True(t, errtag.HasTag[errtag.NotFound](err))
}

func TestOrder_Merge(t *testing.T) {
	order := genOrder()
	order.Environment = "uat"

	fields := genFields()
	fields.Environment = ""
	order.Merge(fields)

	want := fields
	want.Environment = "uat"
	assert.Equal(t, want, order.Fields)
}

func TestPage_TotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		size  int32
		want  int64
	}{
		{name: "empty", total: 0, size: 20, want: 0},
		{name: "exact", total: 40, size: 20, want: 2},
		{name: "partial", total: 41, size: 20, want: 3},
		{name: "zero size", total: 10, size: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Page{Total: tt.total, Size: tt.size}.TotalPages())
		})
	}
}

func TestPageFilter_OrderByClause(t *testing.T) {
	tests := []struct {
		name    string
		sort    []SortOrder
		want    string
		wantErr bool
	}{
		{name: "default", want: "id ASC"},
		{
			name: "multiple",
			sort: []SortOrder{{Property: SortByEnvironment}, {Property: SortByProjectName, Descending: true}},
			want: "environment ASC, project_name DESC, id ASC",
		},
		{
			name: "explicit id",
			sort: []SortOrder{{Property: SortByID, Descending: true}},
			want: "id DESC",
		},
		{
			name:    "unknown property",
			sort:    []SortOrder{{Property: "name; DROP TABLE orders"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PageFilter{Sort: tt.sort}.OrderByClause()
			if tt.wantErr {
				assert.True(t, errtag.HasTag[errtag.InvalidArgument](err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
