// Package mocks provides a testify mock of the commerce API surface for
// service and handler tests.
package mocks

import (
	"context"

	"github.com/medikart/pharmacy-storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type API struct {
	mock.Mock
}

func NewAPI() *API {
	return &API{}
}

func (m *API) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *API) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *API) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *API) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *API) FetchCart(ctx context.Context) ([]models.CartItem, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *API) AddCartItem(ctx context.Context, productID int64, quantity int) error {
	args := m.Called(ctx, productID, quantity)

	return args.Error(0)
}

func (m *API) RemoveCartItem(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)

	return args.Error(0)
}

func (m *API) ClearCart(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *API) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *API) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *API) ListOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *API) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}
