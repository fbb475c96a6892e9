package order

import (
	"github.com/joshjon/kit/id"
	"go.jetify.com/typeid"
)

type orderPrefix struct{}

func (orderPrefix) Prefix() string { return "order" }

// OrderID is the unique identifier for an Order.
type OrderID struct {
	typeid.TypeID[orderPrefix]
}

// Fields are the mutable attributes of an Order.
type Fields struct {
	ProjectName           string `json:"projectName"`
	ProjectDisplayName    string `json:"projectDisplayName"`
	ProjectDescription    string `json:"projectDescription"`
	ProjectAdminUser      string `json:"projectAdminUser"`
	ProjectRequestingUser string `json:"projectRequestingUser"`
	Environment           string `json:"environment"`
	BusinessUnit          string `json:"businessUnit"`
	CostCode              string `json:"costCode"`
}

// Order is a request to provision a project namespace on the platform.
type Order struct {
	ID OrderID `json:"id"`
	Fields
}

// NewOrder creates a new Order with a generated ID.
func NewOrder(fields Fields) *Order {
	return &Order{
		ID:     id.New[OrderID](),
		Fields: fields,
	}
}

// Merge overwrites the order fields with the provided fields. The environment
// of an existing order is retained.
func (o *Order) Merge(fields Fields) {
	env := o.Environment
	o.Fields = fields
	o.Environment = env
}
