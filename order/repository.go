package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshjon/kit/errtag"

	"github.com/ospoc/ospoc/tx"
)

// Repository is the interface for performing CRUD operations on Orders.
//
// Implementations must pass all tests in the RepositoryTestSuite to be
// considered compliant for use in the application.
type Repository interface {
	CreateOrder(ctx context.Context, order *Order) error
	ReadOrder(ctx context.Context, id OrderID) (*Order, error)
	ListOrders(ctx context.Context, filter PageFilter) ([]*Order, error)
	CountOrders(ctx context.Context) (int64, error)
	UpdateOrder(ctx context.Context, order *Order) error
	DeleteOrder(ctx context.Context, id OrderID) error // must not fail if the order does not exist
	WithTx(tx tx.Tx) (Repository, error)
}

// SortProperty is an Order property that a list can be ordered by.
type SortProperty string

const (
	SortByID                    SortProperty = "id"
	SortByProjectName           SortProperty = "projectName"
	SortByProjectDisplayName    SortProperty = "projectDisplayName"
	SortByProjectDescription    SortProperty = "projectDescription"
	SortByProjectAdminUser      SortProperty = "projectAdminUser"
	SortByProjectRequestingUser SortProperty = "projectRequestingUser"
	SortByEnvironment           SortProperty = "environment"
	SortByBusinessUnit          SortProperty = "businessUnit"
	SortByCostCode              SortProperty = "costCode"
)

var sortColumns = map[SortProperty]string{
	SortByID:                    "id",
	SortByProjectName:           "project_name",
	SortByProjectDisplayName:    "project_display_name",
	SortByProjectDescription:    "project_description",
	SortByProjectAdminUser:      "project_admin_user",
	SortByProjectRequestingUser: "project_requesting_user",
	SortByEnvironment:           "environment",
	SortByBusinessUnit:          "business_unit",
	SortByCostCode:              "cost_code",
}

// Column returns the database column for the property.
func (p SortProperty) Column() (string, bool) {
	col, ok := sortColumns[p]
	return col, ok
}

// SortOrder orders a list by a single property.
type SortOrder struct {
	Property   SortProperty
	Descending bool
}

// PageFilter selects a page of Orders. Page is zero based.
type PageFilter struct {
	Page int32
	Size int32
	Sort []SortOrder
}

// Offset returns the number of rows to skip before the page starts.
func (f PageFilter) Offset() int64 {
	return int64(f.Page) * int64(f.Size)
}

// Page is a single page of Orders along with the pagination metadata.
type Page struct {
	Orders []*Order
	Total  int64
	Page   int32
	Size   int32
}

// TotalPages returns the number of pages needed to hold all Orders.
func (p Page) TotalPages() int64 {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + int64(p.Size) - 1) / int64(p.Size)
}

// OrderByClause returns the SQL ORDER BY expression (without the keyword) for
// the filter's sort orders. The id column is appended when not already
// sorted on so that pages are stable.
func (f PageFilter) OrderByClause() (string, error) {
	terms := make([]string, 0, len(f.Sort)+1)
	hasID := false
	for _, s := range f.Sort {
		col, ok := s.Property.Column()
		if !ok {
			return "", errtag.NewTagged[errtag.InvalidArgument](fmt.Sprintf("invalid sort property %q", s.Property))
		}
		if s.Property == SortByID {
			hasID = true
		}
		dir := "ASC"
		if s.Descending {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
	}
	if !hasID {
		terms = append(terms, "id ASC")
	}
	return strings.Join(terms, ", "), nil
}
