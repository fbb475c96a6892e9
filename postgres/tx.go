package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ospoc/ospoc/tx"
)

type PGXTxer interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ tx.Txer = (*Txer)(nil)

type Txer struct {
	pgxTxer PGXTxer
}

func NewTxer(pgxTxer PGXTxer) *Txer {
	return &Txer{
		pgxTxer: pgxTxer,
	}
}

func (t *Txer) BeginTx(ctx context.Context, opts ...tx.Option) (tx.Tx, error) {
	return t.pgxTxer.BeginTx(ctx, pgxTxOptions(tx.NewOptions(opts...)))
}

// pgxTxOptions maps read-only transactions to REPEATABLE READ so that all of
// their statements share one snapshot.
func pgxTxOptions(o tx.Options) pgx.TxOptions {
	if !o.ReadOnly {
		return pgx.TxOptions{}
	}
	return pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}
}

func initWithTx[T any](txn tx.Tx, initFn func(dbtx DBTX) T) (T, error) {
	var t T

	pgxTx, ok := txn.(pgx.Tx)
	if !ok {
		return t, errors.New("tx does not implement pgx.Tx")
	}

	return initFn(pgxTx), nil
}
