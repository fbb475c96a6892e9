package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joshjon/kit/errtag"
	"github.com/joshjon/kit/id"

	"github.com/ospoc/ospoc/order"
	"github.com/ospoc/ospoc/tx"
)

const orderColumns = `id, project_name, project_display_name, project_description, project_admin_user,
	project_requesting_user, environment, business_unit, cost_code`

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ order.Repository = (*OrderRepository)(nil)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o *order.Order) error {
	_, err := r.db.Exec(ctx, `INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
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
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID.String())
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

	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY ` + orderBy + ` LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, filter.Size, filter.Offset())
	if err != nil {
		return nil, tagOrderErr(err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*order.Order, error) {
		return scanOrder(row)
	})
	if err != nil {
		return nil, tagOrderErr(err)
	}
	return orders, nil
}

func (r *OrderRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, o *order.Order) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders
		SET project_name = $2, project_display_name = $3, project_description = $4, project_admin_user = $5,
			project_requesting_user = $6, environment = $7, business_unit = $8, cost_code = $9
		WHERE id = $1`,
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
	if err != nil {
		return tagOrderErr(err)
	}
	if tag.RowsAffected() == 0 {
		return tagOrderErr(pgx.ErrNoRows)
	}
	return nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, orderID order.OrderID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID.String())
	return tagOrderErr(err)
}

func (r *OrderRepository) WithTx(txn tx.Tx) (order.Repository, error) {
	return initWithTx(txn, func(dbtx DBTX) order.Repository {
		return NewOrderRepository(dbtx)
	})
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		rawID string
		o     order.Order
	)
	err := row.Scan(
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
	if errors.Is(err, pgx.ErrNoRows) {
		return errtag.Tag[order.ErrTagNotFound](err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation {
			return errtag.Tag[order.ErrTagConflict](err)
		}
	}
	return err
}
