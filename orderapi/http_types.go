package orderapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cohesivestack/valgo"
	"github.com/joshjon/kit/id"

	"github.com/ospoc/ospoc/order"
)

const (
	defaultPageSize = 20
	maxPageSize     = 2000
)

type CreateOrderRequest struct {
	order.Fields
}

// Validate accepts any attributes since Order fields are free text.
func (r CreateOrderRequest) Validate() error {
	return nil
}

type GetOrderRequest struct {
	ID string `param:"order_id" json:"-"`
}

func (r GetOrderRequest) Validate() error {
	return valgo.In("params", valgo.Is(IDValidator(r.ID, PathParamOrderID))).Error()
}

type UpdateOrderRequest struct {
	ID string `param:"order_id" json:"-"`
	order.Fields
}

func (r UpdateOrderRequest) Validate() error {
	return valgo.In("params", valgo.Is(IDValidator(r.ID, PathParamOrderID))).Error()
}

type DeleteOrderRequest struct {
	ID string `param:"order_id" json:"-"`
}

func (r DeleteOrderRequest) Validate() error {
	return valgo.In("params", valgo.Is(IDValidator(r.ID, PathParamOrderID))).Error()
}

// ListOrdersRequest holds the raw paging query parameters. Malformed page and
// size values fall back to their defaults.
type ListOrdersRequest struct {
	Page string   `query:"page"`
	Size string   `query:"size"`
	Sort []string `query:"sort"`
}

func (r ListOrdersRequest) Validate() error {
	v := valgo.New()
	for i, s := range r.Sort {
		v.InRow("sort", i, valgo.Is(sortValidator(s, "sort")))
	}
	return v.Error()
}

// PageFilter converts the request into an order.PageFilter. The page is zero
// based and negative pages are treated as the first page. The size defaults
// to 20 when missing or less than 1 and is capped at 2000.
func (r ListOrdersRequest) PageFilter() order.PageFilter {
	page, err := strconv.ParseInt(r.Page, 10, 32)
	if err != nil || page < 0 {
		page = 0
	}

	size, err := strconv.ParseInt(r.Size, 10, 32)
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	size = min(size, maxPageSize)

	var sorts []order.SortOrder
	for _, s := range r.Sort {
		sorts = append(sorts, parseSort(s)...)
	}

	return order.PageFilter{
		Page: int32(page),
		Size: int32(size),
		Sort: sorts,
	}
}

// parseSort parses a sort parameter of the form "property[,property...][,asc|desc]".
// The direction applies to every property in the parameter.
func parseSort(raw string) []order.SortOrder {
	var props []string
	desc := false
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "":
			continue
		case "asc":
			desc = false
		case "desc":
			desc = true
		default:
			props = append(props, part)
		}
	}

	sorts := make([]order.SortOrder, len(props))
	for i, p := range props {
		sorts[i] = order.SortOrder{Property: order.SortProperty(p), Descending: desc}
	}
	return sorts
}

type OrderResponse struct {
	order.Order
}

// PageResponse is a page of Orders along with the paging metadata.
type PageResponse struct {
	Content       []OrderResponse `json:"content"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int64           `json:"totalPages"`
	Number        int32           `json:"number"`
	Size          int32           `json:"size"`
}

func newPageResponse(page order.Page) PageResponse {
	content := make([]OrderResponse, len(page.Orders))
	for i, o := range page.Orders {
		content[i] = OrderResponse{Order: *o}
	}
	return PageResponse{
		Content:       content,
		TotalElements: page.Total,
		TotalPages:    page.TotalPages(),
		Number:        page.Page,
		Size:          page.Size,
	}
}

func IDValidator(identifier string, nameAndTitle ...string) valgo.Validator {
	var parsed order.OrderID
	var parseErr error

	return valgo.String(identifier, nameAndTitle...).
		Passing(func(_ string) bool {
			parsed, parseErr = id.Parse[order.OrderID](identifier)
			return parseErr == nil
		}, "Must be a valid order ID").
		Passing(func(_ string) bool {
			if parseErr == nil {
				return !parsed.IsZero()
			}
			return true
		}, "Must not be empty")
}

func sortValidator(raw string, nameAndTitle ...string) valgo.Validator {
	return valgo.String(raw, nameAndTitle...).Passing(func(_ string) bool {
		for _, s := range parseSort(raw) {
			if _, ok := s.Property.Column(); !ok {
				return false
			}
		}
		return true
	}, fmt.Sprintf("Must be of the form 'property[,asc|desc]' with a known order property (%s)", strings.Join(sortPropertyNames(), ", ")))
}

func sortPropertyNames() []string {
	return []string{
		string(order.SortByID),
		string(order.SortByProjectName),
		string(order.SortByProjectDisplayName),
		string(order.SortByProjectDescription),
		string(order.SortByProjectAdminUser),
		string(order.SortByProjectRequestingUser),
		string(order.SortByEnvironment),
		string(order.SortByBusinessUnit),
		string(order.SortByCostCode),
	}
}
