// Package tx provides the transaction abstractions shared by the order
// repositories so a Store can run several repository calls atomically
// regardless of the database in use.
package tx

import (
	"context"
	"fmt"
)

// Txer begins transactions.
type Txer interface {
	BeginTx(ctx context.Context, opts ...Option) (Tx, error)
}

// Options configures a transaction.
type Options struct {
	// ReadOnly marks a transaction that only reads. Where the database
	// supports it, every statement in the transaction sees one snapshot.
	ReadOnly bool
}

// Option configures Options.
type Option func(*Options)

// WithReadOnly begins a read-only transaction.
func WithReadOnly() Option {
	return func(o *Options) {
		o.ReadOnly = true
	}
}

// NewOptions applies opts to the zero Options.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Tx is a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Handle is intended for deferred execution after a transaction has begun.
// It rolls the transaction back if the caller panicked or returned an error,
// and commits it otherwise. Arg `err` must be a pointer to the named error
// returned by the caller.
func Handle(ctx context.Context, tx Tx, err *error) {
	if r := recover(); r != nil {
		if rErr := tx.Rollback(ctx); rErr != nil {
			panic(fmt.Errorf("panic: %v; rollback transaction: %w", r, rErr))
		}
		panic(r)
	}

	if err != nil && *err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil {
			*err = fmt.Errorf("%w; rollback transaction: %w", *err, rErr)
		}
		return
	}

	if cErr := tx.Commit(ctx); cErr != nil {
		*err = fmt.Errorf("commit transaction: %w", cErr)
	}
}
