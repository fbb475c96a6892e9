package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joshjon/kit/errtag"
	"github.com/joshjon/kit/id"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ospoc/ospoc/order"
	"github.com/ospoc/ospoc/tx"
)

const orderColumns = `id, project_name, project_display_name, project_description, project_admin_user,
	project_requesting_user, environment, business_unit, cost_code`

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ order.Repository = (*OrderRepository)(nil)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o *order.Order) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID.String(),
		o.ProjectName,
		o.ProjectDisplayName,
		o.ProjectDescription,
		o.ProjectAdminUser,
		o.ProjectRequestingUser,
		o.Environment,
		o.BusinessUnit,
		o.CostCode,
	)
	return tagOrderErr(err)
}

func (r *OrderRepository) ReadOrder(ctx context.Context, orderID order.OrderID) (*order.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, orderID.String())
	o, err := scanOrder(row)
	if err != nil {
		return nil, tagOrderErr(err)
	}
	return o, nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, filter order.PageFilter) ([]*order.Order, error) {
	orderBy, err := filter.OrderByClause()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, filter.Size, filter.Offset())
	if err != nil {
		return nil, tagOrderErr(err)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, o *order.Order) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders
		SET project_name = ?, project_display_name = ?, project_description = ?, project_admin_user = ?,
			project_requesting_user = ?, environment = ?, business_unit = ?, cost_code = ?
		WHERE id = ?`,
		o.ProjectName,
		o.ProjectDisplayName,
		o.ProjectDescription,
		o.ProjectAdminUser,
		o.ProjectRequestingUser,
		o.Environment,
		o.BusinessUnit,
		o.CostCode,
		o.ID.String(),
	)
	if err != nil {
		return tagOrderErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return tagOrderErr(sql.ErrNoRows)
	}
	return nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, orderID order.OrderID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID.String())
	return tagOrderErr(err)
}

func (r *OrderRepository) WithTx(txn tx.Tx) (order.Repository, error) {
	return initWithTx(txn, func(dbtx DBTX) order.Repository {
		return NewOrderRepository(dbtx)
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*order.Order, error) {
	var (
		rawID string
		o     order.Order
	)
	err := s.Scan(
		&rawID,
		&o.ProjectName,
		&o.ProjectDisplayName,
		&o.ProjectDescription,
		&o.ProjectAdminUser,
		&o.ProjectRequestingUser,
		&o.Environment,
		&o.BusinessUnit,
		&o.CostCode,
	)
	if err != nil {
		return nil, err
	}
	if o.ID, err = id.Parse[order.OrderID](rawID); err != nil {
		return nil, fmt.Errorf("parse order id: %w", err)
	}
	return &o, nil
}

func tagOrderErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errtag.Tag[order.ErrTagNotFound](err)
	}
	if isSQLiteErrCode(err, sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY) {
		return errtag.Tag[order.ErrTagConflict](err)
	}
	return err
}

func isSQLiteErrCode(err error, codes ...int) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		for _, code := range codes {
			if sqliteErr.Code() == code {
				return true
			}
		}
	}
	return false
}
