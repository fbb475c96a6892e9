package order

import (
	"context"

	"github.com/joshjon/kit/errtag"

	"github.com/ospoc/ospoc/tx"
)

// Store creates, reads, updates, and deletes Orders.
type Store struct {
	repo Repository
	txer tx.Txer
	isTx bool
}

// NewStore creates a new Store instance with the provided Repository.
func NewStore(txer tx.Txer, repo Repository) *Store {
	return &Store{
		repo: repo,
		txer: txer,
	}
}

// CreateOrder creates an Order.
func (s *Store) CreateOrder(ctx context.Context, order *Order) error {
	return s.repo.CreateOrder(ctx, order)
}

// ReadOrder reads an Order by ID.
func (s *Store) ReadOrder(ctx context.Context, id OrderID) (*Order, error) {
	return s.repo.ReadOrder(ctx, id)
}

// ListOrders reads a Page of Orders matching the provided PageFilter. The
// Orders and the total count are read in one read-only transaction.
func (s *Store) ListOrders(ctx context.Context, filter PageFilter) (Page, error) {
	var page Page
	err := s.inTx(ctx, func(store *Store) error {
		orders, err := store.repo.ListOrders(ctx, filter)
		if err != nil {
			return err
		}

		total, err := store.repo.CountOrders(ctx)
		if err != nil {
			return err
		}

		if orders == nil {
			orders = []*Order{}
		}

		page = Page{
			Orders: orders,
			Total:  total,
			Page:   filter.Page,
			Size:   filter.Size,
		}
		return nil
	}, tx.WithReadOnly())
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// UpsertOrder updates the Order with the given ID using the provided fields.
// If no Order exists with the ID, a new Order is created with that ID.
func (s *Store) UpsertOrder(ctx context.Context, id OrderID, fields Fields) (*Order, error) {
	order, err := s.upsertOrder(ctx, id, fields)
	if errtag.HasTag[ErrTagConflict](err) && !s.isTx {
		// a concurrent upsert created the order first, so merge into it
		return s.upsertOrder(ctx, id, fields)
	}
	return order, err
}

func (s *Store) upsertOrder(ctx context.Context, id OrderID, fields Fields) (*Order, error) {
	var order *Order
	err := s.inTx(ctx, func(store *Store) error {
		existing, err := store.repo.ReadOrder(ctx, id)
		switch {
		case err == nil:
			existing.Merge(fields)
			if err = store.repo.UpdateOrder(ctx, existing); err != nil {
				return err
			}
			order = existing
			return nil
		case errtag.HasTag[errtag.NotFound](err):
			created := &Order{ID: id, Fields: fields}
			if err = store.repo.CreateOrder(ctx, created); err != nil {
				return err
			}
			order = created
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder deletes an Order by ID. Deleting an Order that does not exist
// is not an error.
func (s *Store) DeleteOrder(ctx context.Context, id OrderID) error {
	return s.repo.DeleteOrder(ctx, id)
}

// WithTx creates a new Store instance that uses the provided transaction.
func (s *Store) WithTx(txn tx.Tx) (*Store, error) {
	cpy := *s
	cpy.isTx = true
	repo, err := cpy.repo.WithTx(txn)
	if err != nil {
		return nil, err
	}
	cpy.repo = repo
	return &cpy, nil
}

// inTx runs fn with a Store bound to a transaction. A new transaction is
// started unless the Store already uses one.
func (s *Store) inTx(ctx context.Context, fn func(store *Store) error, opts ...tx.Option) (err error) {
	if s.isTx {
		return fn(s)
	}

	txn, err := s.txer.BeginTx(ctx, opts...)
	if err != nil {
		return err
	}
	defer tx.Handle(ctx, txn, &err)

	store, err := s.WithTx(txn)
	if err != nil {
		return err
	}
	return fn(store)
}
