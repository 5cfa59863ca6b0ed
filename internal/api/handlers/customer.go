package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/medikart/pharmacy-storefront/internal/api/middleware"
	"github.com/medikart/pharmacy-storefront/internal/models"
	service "github.com/medikart/pharmacy-storefront/internal/services"
	"github.com/medikart/pharmacy-storefront/internal/utils"
	"github.com/medikart/pharmacy-storefront/internal/utils/response"
)

type CustomerHandler struct {
	customerService *service.CustomerService
	validator       *validator.Validate
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, validator: validator.New()}
}

func (h *CustomerHandler) ListCustomers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		customers, err := h.customerService.ListCustomers(r.Context())

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list customers", "error", err.Error())
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, customers)

	}
}

func (h *CustomerHandler) CreateCustomer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.CreateCustomerRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		customer, err := h.customerService.CreateCustomer(r.Context(), &req)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Customer creation failed", "error", err.Error())
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusCreated, customer)

	}
}
