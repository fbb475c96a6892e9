package order

import (
	"context"
	"testing"
	"time"

	"github.com/joshjon/kit/errtag"
	"github.com/joshjon/kit/id"
	"github.com/stretchr/testify/suite"

	"github.com/ospoc/ospoc/internal/testutil"
)

const defaultTestSuiteTimeout = 5 * time.Second

// RepositoryTestSuite verifies that a Repository implementation satisfies
// the expected behavior required by the application. All tests must pass
// for an implementation to be considered compliant.
type RepositoryTestSuite struct {
	// Timeout defines the maximum duration for each test (default: 5s).
	Timeout time.Duration

	// Setup is called before every test and must return a valid repository
	// to use within each test run.
	Setup func(t *testing.T) Repository

	repo Repository
	suite.Suite
}

func (s *RepositoryTestSuite) SetupTest() {
	s.Require().NotNil(s.Setup, "Setup func required")

	repo := s.Setup(s.T())
	s.Require().NotNil(repo, "Repository must not be nil")
	s.repo = repo

	if s.Timeout == 0 {
		s.Timeout = defaultTestSuiteTimeout
	}
}

func (s *RepositoryTestSuite) TestCreateReadOrder() {
	ctx, cancel := context.WithTimeout(s.T().Context(), s.Timeout)
	defer cancel()

	want := genOrder()
	err := s.repo.CreateOrder(ctx, want)
	s.Require().NoError(err)

	got, err := s.repo.ReadOrder(ctx, want.ID)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *RepositoryTestSuite) TestCreateOrderConflict() {
	ctx, cancel := context.WithTimeout(s.T().Context(), s.Timeout)
	defer cancel()

	order := genOrder()
	s.Require().NoError(s.repo.CreateOrder(ctx, order))

	err := s.repo.CreateOrder(ctx, order)
	s.True(errtag.HasTag[errtag.Conflict](err))
}

func (s *RepositoryTestSuite) TestReadOrderNotFound() {
	ctx, cancel := context.WithTimeout(s.T().Context(), s.Timeout)
	defer cancel()

	_, err := s.repo.ReadOrder(ctx, id.New[OrderID]())
	s.True(errtag.HasTag[errtag.NotFound](err))
}

func (s *RepositoryTestSuite) TestListOrders() {
	ctx, cancel := context.WithTimeout(s.T().Context(), s.Timeout)
	defer cancel()

	numOrders := 15
	pageSize := int32(10)
	wantOrders := make([]*Order, numOrders)
	for i := range numOrders {
		order := genOrder()
		s.Require().NoError(s.repo.CreateOrder(ctx, order))
		wantOrders[i] = order
	}

	// Default ordering is by id, and typeids are time ordered
	filter := PageFilter{Page: 0, Size: pageSize}
	gotPage1, err := s.repo.ListOrders(ctx, filter)
	s.Require().NoError(err)
	s.Equal(wantOrders[:pageSize], gotPage1)

	filter.Page = 1
	gotPage2, err := s.repo.ListOrders(ctx, filter)
	s.Require().NoError(err)
	s.Equal(wantOrders[pageSize:], gotPage2)

	filter.Page = 2
	gotPage3, err := s.repo.ListOrders(ctx, filter)
	s.Require().NoError(err)
	s.Empty(gotPage3)

	count, err := s.repo.CountOrders(ctx)
	s.Require().NoError(err)
	s.Equal(int64(numOrders), count)
}

func (s *RepositoryTestSuite) TestListOrdersSorted() {
	ctx, cancel := context.WithTimeout(s.T().Context(), s.Timeout)
	defer cancel()

	names := []string{"bravo", "alpha", "charlie"}
	for _, name := range names {
		order := genOrder()
		order.ProjectName = name
		order.CostCode = "cc-1"
		s.Require().NoError(s.repo.CreateOrder(ctx, order))
	}

	got, err := s.repo.ListOrders(ctx, PageFilter{
		Size: 10,
		Sort: []SortOrder{
			{Property: SortByCostCode},
			{Property: SortByProjectName, Descending: true},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(got, len(names))
	s.Equal("charlie", got[0].ProjectName)
	s.Equal("bravo", got[1].ProjectName)
	s.Equal("alpha", got[2].ProjectName)
}

func (s *RepositoryTestSuite) TestUpdateOrder() {
	ctx, cancel := context.WithTimeout(s.T().Context(), s.Timeout)
	defer cancel()

	order := genOrder()
	s.Require().NoError(s.repo.CreateOrder(ctx, order))

	order.Fields = genFields()
	s.Require().NoError(s.repo.UpdateOrder(ctx, order))

	got, err := s.repo.ReadOrder(ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(order, got)
}

func (s *RepositoryTestSuite) TestUpdateOrderNotFound() {
	ctx, cancel := context.WithTimeout(s.T().Context(), s.Timeout)
	defer cancel()

	err := s.repo.UpdateOrder(ctx, genOrder())
	s.True(errtag.HasTag[errtag.NotFound](err))
}

func (s *RepositoryTestSuite) TestDeleteOrder() {
	ctx, cancel := context.WithTimeout(s.T().Context(), s.Timeout)
	defer cancel()

	order := genOrder()
	s.Require().NoError(s.repo.CreateOrder(ctx, order))

	s.Require().NoError(s.repo.DeleteOrder(ctx, order.ID))
	_, err := s.repo.ReadOrder(ctx, order.ID)
	s.True(errtag.HasTag[errtag.NotFound](err))

	// deleting again is a no-op
	s.NoError(s.repo.DeleteOrder(ctx, order.ID))
}

func genOrder() *Order {
	return NewOrder(genFields())
}

func genFields() Fields {
	return Fields{
		ProjectName:           testutil.RandProjectName(),
		ProjectDisplayName:    testutil.RandString(20),
		ProjectDescription:    testutil.RandString(50),
		ProjectAdminUser:      testutil.RandString(10),
		ProjectRequestingUser: testutil.RandString(10),
		Environment:           testutil.RandEnvironment(),
		BusinessUnit:          testutil.RandString(8),
		CostCode:              testutil.RandString(6),
	}
}
