package order

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joshjon/kit/errtag"
	"github.com/joshjon/kit/log"

	"github.com/ospoc/ospoc/logkey"
	"github.com/ospoc/ospoc/provision"
)

// Provisioner creates namespaces on the external platform.
type Provisioner interface {
	CreateNamespace(ctx context.Context, req provision.NamespaceRequest) (provision.Response, error)
}

// ServiceOption configures a Service.
type ServiceOption func(svc *Service)

// WithLogger sets the logger used by the Service.
func WithLogger(logger log.Logger) ServiceOption {
	return func(svc *Service) {
		svc.logger = logger
	}
}

// Service handles Order operations, including provisioning a project namespace
// when an Order is created.
type Service struct {
	store       *Store
	provisioner Provisioner
	logger      log.Logger
}

// NewService creates a new Service.
func NewService(store *Store, provisioner Provisioner, opts ...ServiceOption) *Service {
	svc := &Service{
		store:       store,
		provisioner: provisioner,
		logger:      log.NewLogger(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.logger = svc.logger.With(logkey.Component, "order.service")
	return svc
}

// CreateOrder persists a new Order and then provisions its project namespace.
//
// The Order is stored before the platform is called and is not removed if
// provisioning fails, so a failed Order can still be read by its ID.
// Provisioning only succeeds when the platform responds with 200 or 201.
func (s *Service) CreateOrder(ctx context.Context, fields Fields) (*Order, error) {
	order := NewOrder(fields)
	logger := s.logger.With(logkey.OrderID, order.ID, logkey.OrderProjectName, fields.ProjectName)

	logger.Info("creating order")
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	req := provision.NewNamespaceRequest(fields.ProjectName)

	// The platform call is not aborted if the caller goes away.
	res, err := s.provisioner.CreateNamespace(context.WithoutCancel(ctx), req)
	if err != nil {
		logger.Error("provision namespace request failed", logkey.Error, err)
		return nil, errtag.Tag[ErrTagProvisioningFailed](fmt.Errorf("provision namespace %q: %w", req.Metadata.Name, err))
	}

	logger = logger.With(logkey.ProvisionStatus, res.StatusCode)
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		logger.Error("provision namespace rejected", logkey.ProvisionResponse, string(res.Body))
		return nil, errtag.NewTagged[ErrTagProvisioningFailed](
			fmt.Sprintf("provision namespace %q: unexpected status %d", req.Metadata.Name, res.StatusCode),
		)
	}

	logger.Info("provisioned namespace", logkey.ProvisionResponse, string(res.Body))
	return order, nil
}

// ReadOrder reads an Order by ID.
func (s *Service) ReadOrder(ctx context.Context, id OrderID) (*Order, error) {
	s.logger.Info("reading order", logkey.OrderID, id)
	return s.store.ReadOrder(ctx, id)
}

// ListOrders reads a Page of Orders.
func (s *Service) ListOrders(ctx context.Context, filter PageFilter) (Page, error) {
	return s.store.ListOrders(ctx, filter)
}

// UpdateOrder replaces the fields of an existing Order, or creates an Order
// with the given ID if it does not exist. The environment of an existing
// Order is not changed.
func (s *Service) UpdateOrder(ctx context.Context, id OrderID, fields Fields) (*Order, error) {
	s.logger.Info("updating order", logkey.OrderID, id)
	return s.store.UpsertOrder(ctx, id, fields)
}

// DeleteOrder deletes an Order by ID.
func (s *Service) DeleteOrder(ctx context.Context, id OrderID) error {
	s.logger.Info("deleting order", logkey.OrderID, id)
	return s.store.DeleteOrder(ctx, id)
}
