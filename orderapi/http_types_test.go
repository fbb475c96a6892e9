package orderapi

import (
	"testing"

	"github.com/joshjon/kit/id"
	"github.com/stretchr/testify/assert"

	"github.com/ospoc/ospoc/order"
)

func TestListOrdersRequest_PageFilter(t *testing.T) {
	tests := []struct {
		name string
		req  ListOrdersRequest
		want order.PageFilter
	}{
		{
			name: "defaults",
			req:  ListOrdersRequest{},
			want: order.PageFilter{Page: 0, Size: defaultPageSize},
		},
		{
			name: "explicit",
			req:  ListOrdersRequest{Page: "3", Size: "50"},
			want: order.PageFilter{Page: 3, Size: 50},
		},
		{
			name: "negative page",
			req:  ListOrdersRequest{Page: "-1", Size: "10"},
			want: order.PageFilter{Page: 0, Size: 10},
		},
		{
			name: "zero size",
			req:  ListOrdersRequest{Size: "0"},
			want: order.PageFilter{Size: defaultPageSize},
		},
		{
			name: "size capped",
			req:  ListOrdersRequest{Size: "2001"},
			want: order.PageFilter{Size: maxPageSize},
		},
		{
			name: "malformed numbers",
			req:  ListOrdersRequest{Page: "one", Size: "many"},
			want: order.PageFilter{Size: defaultPageSize},
		},
		{
			name: "sort",
			req:  ListOrdersRequest{Sort: []string{"environment", "projectName,DESC", "costCode,businessUnit,asc"}},
			want: order.PageFilter{
				Size: defaultPageSize,
				Sort: []order.SortOrder{
					{Property: order.SortByEnvironment},
					{Property: order.SortByProjectName, Descending: true},
					{Property: order.SortByCostCode},
					{Property: order.SortByBusinessUnit},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.PageFilter())
		})
	}
}

func TestListOrdersRequest_Validate(t *testing.T) {
	assert.NoError(t, ListOrdersRequest{Sort: []string{"id,desc", "projectName"}}.Validate())
	assert.Error(t, ListOrdersRequest{Sort: []string{"project_name"}}.Validate())
	assert.Error(t, ListOrdersRequest{Sort: []string{"id", "unknown,asc"}}.Validate())
}

func TestIDValidation(t *testing.T) {
	assert.NoError(t, GetOrderRequest{ID: id.New[order.OrderID]().String()}.Validate())
	assert.Error(t, GetOrderRequest{ID: ""}.Validate())
	assert.Error(t, DeleteOrderRequest{ID: "order_invalid"}.Validate())
	assert.Error(t, UpdateOrderRequest{ID: "123"}.Validate())
}
