package orderapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joshjon/kit/id"
	"github.com/joshjon/kit/server"
	"github.com/labstack/echo/v4"

	"github.com/ospoc/ospoc/logkey"
	"github.com/ospoc/ospoc/order"
)

const PathParamOrderID = "order_id"

// Service performs Order operations for the HTTPHandler.
type Service interface {
	CreateOrder(ctx context.Context, fields order.Fields) (*order.Order, error)
	ReadOrder(ctx context.Context, id order.OrderID) (*order.Order, error)
	ListOrders(ctx context.Context, filter order.PageFilter) (order.Page, error)
	UpdateOrder(ctx context.Context, id order.OrderID, fields order.Fields) (*order.Order, error)
	DeleteOrder(ctx context.Context, id order.OrderID) error
}

// HTTPHandler handles Order HTTP requests.
type HTTPHandler struct {
	svc Service
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(svc Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Register adds the HTTPHandler endpoints to the provided Echo router group.
func (h *HTTPHandler) Register(g *echo.Group) {
	orders := g.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.POST("", h.CreateOrder)

	o := orders.Group(fmt.Sprintf("/:%s", PathParamOrderID))
	o.GET("", h.GetOrder)
	o.PUT("", h.UpdateOrder)
	o.DELETE("", h.DeleteOrder)
}

// CreateOrder handles POST requests to create an Order and provision its
// project namespace.
func (h *HTTPHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := server.BindRequest[CreateOrderRequest](c)
	if err != nil {
		return err
	}
	c.Set(logkey.OrderProjectName, req.ProjectName)

	o, err := h.svc.CreateOrder(ctx, req.Fields)
	if err != nil {
		return err
	}
	c.Set(logkey.OrderID, o.ID)

	return server.SetResponse(c, http.StatusCreated, OrderResponse{Order: *o})
}

// GetOrder handles GET requests to get an Order.
func (h *HTTPHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := server.BindRequest[GetOrderRequest](c)
	if err != nil {
		return err
	}

	orderID := id.MustParse[order.OrderID](req.ID)
	c.Set(logkey.OrderID, orderID)

	o, err := h.svc.ReadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	return server.SetResponse(c, http.StatusOK, OrderResponse{Order: *o})
}

// ListOrders handles GET requests to list a page of Orders.
func (h *HTTPHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := server.BindRequest[ListOrdersRequest](c)
	if err != nil {
		return err
	}

	page, err := h.svc.ListOrders(ctx, req.PageFilter())
	if err != nil {
		return err
	}

	return server.SetResponse(c, http.StatusOK, newPageResponse(page))
}

// UpdateOrder handles PUT requests to update an Order. An Order is created
// with the requested ID if it does not exist.
func (h *HTTPHandler) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := server.BindRequest[UpdateOrderRequest](c)
	if err != nil {
		return err
	}

	orderID := id.MustParse[order.OrderID](req.ID)
	c.Set(logkey.OrderID, orderID)

	o, err := h.svc.UpdateOrder(ctx, orderID, req.Fields)
	if err != nil {
		return err
	}

	return server.SetResponse(c, http.StatusOK, OrderResponse{Order: *o})
}

// DeleteOrder handles DELETE requests to delete an Order. Deleting an Order
// that does not exist succeeds.
func (h *HTTPHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := server.BindRequest[DeleteOrderRequest](c)
	if err != nil {
		return err
	}

	orderID := id.MustParse[order.OrderID](req.ID)
	c.Set(logkey.OrderID, orderID)

	if err = h.svc.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
