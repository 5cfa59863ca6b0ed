package service

import (
	"context"

	"github.com/medikart/pharmacy-storefront/internal/models"
	"github.com/medikart/pharmacy-storefront/pkg/commerce"
)

// CustomerService backs the admin customer screens. The remote commerce API
// owns the records; this is a typed passthrough.
type CustomerService struct {
	api commerce.API
}

func NewCustomerService(api commerce.API) *CustomerService {
	return &CustomerService{api: api}
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.api.ListCustomers(ctx)
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	return s.api.CreateCustomer(ctx, req)
}
