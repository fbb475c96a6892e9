package order

import (
	"cmp"
	"context"
	"testing"

	"github.com/joshjon/kit/errtag"

	"github.com/ospoc/ospoc/testutil"
	"github.com/ospoc/ospoc/tx"
)

var _ Repository = (*FakeRepository)(nil)

// FakeRepository is an in-memory Repository for tests.
type FakeRepository struct {
	orders *testutil.KV[OrderID, Order]
}

func NewFakeRepository(t *testing.T) *FakeRepository {
	t.Helper()
	return &FakeRepository{
		orders: testutil.NewKV[OrderID, Order](t),
	}
}

func (r *FakeRepository) CreateOrder(_ context.Context, order *Order) error {
	if !r.orders.PutIfAbsent(order.ID, *order) {
		return errtag.NewTagged[ErrTagConflict]("order already exists")
	}
	return nil
}

func (r *FakeRepository) ReadOrder(_ context.Context, id OrderID) (*Order, error) {
	order, ok := r.orders.Get(id)
	if !ok {
		return nil, errtag.NewTagged[ErrTagNotFound]("order not found")
	}
	return &order, nil
}

func (r *FakeRepository) ListOrders(_ context.Context, filter PageFilter) ([]*Order, error) {
	if _, err := filter.OrderByClause(); err != nil {
		return nil, err
	}
	orders := r.orders.List(filter.Offset(), int64(filter.Size), func(a, b Order) int {
		for _, sort := range filter.Sort {
			c := cmp.Compare(a.property(sort.Property), b.property(sort.Property))
			if sort.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	out := make([]*Order, len(orders))
	for i := range orders {
		out[i] = &orders[i]
	}
	return out, nil
}

func (r *FakeRepository) CountOrders(_ context.Context) (int64, error) {
	return int64(r.orders.Len()), nil
}

func (r *FakeRepository) UpdateOrder(_ context.Context, order *Order) error {
	if _, ok := r.orders.Get(order.ID); !ok {
		return errtag.NewTagged[ErrTagNotFound]("order not found")
	}
	r.orders.Put(order.ID, *order)
	return nil
}

func (r *FakeRepository) DeleteOrder(_ context.Context, id OrderID) error {
	r.orders.Delete(id)
	return nil
}

func (r *FakeRepository) WithTx(_ tx.Tx) (Repository, error) {
	return r, nil
}

func (o Order) property(p SortProperty) string {
	switch p {
	case SortByProjectName:
		return o.ProjectName
	case SortByProjectDisplayName:
		return o.ProjectDisplayName
	case SortByProjectDescription:
		return o.ProjectDescription
	case SortByProjectAdminUser:
		return o.ProjectAdminUser
	case SortByProjectRequestingUser:
		return o.ProjectRequestingUser
	case SortByEnvironment:
		return o.Environment
	case SortByBusinessUnit:
		return o.BusinessUnit
	case SortByCostCode:
		return o.CostCode
	default:
		return o.ID.String()
	}
}
