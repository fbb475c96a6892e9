package testutil

import (
	"context"
	"sync/atomic"

	"github.com/ospoc/ospoc/tx"
)

type FakeTx struct {
	commits   *atomic.Int32
	rollbacks *atomic.Int32
}

func (t *FakeTx) Commit(_ context.Context) error {
	t.commits.Add(1)
	return nil
}

func (t *FakeTx) Rollback(_ context.Context) error {
	t.rollbacks.Add(1)
	return nil
}

// FakeTxer begins transactions that only count commits and rollbacks.
type FakeTxer struct {
	Commits   atomic.Int32
	Rollbacks atomic.Int32
	ReadOnly  atomic.Int32
}

func (t *FakeTxer) BeginTx(_ context.Context, opts ...tx.Option) (tx.Tx, error) {
	if tx.NewOptions(opts...).ReadOnly {
		t.ReadOnly.Add(1)
	}
	return &FakeTx{commits: &t.Commits, rollbacks: &t.Rollbacks}, nil
}
