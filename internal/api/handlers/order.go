package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/medikart/pharmacy-storefront/internal/api/middleware"
	"github.com/medikart/pharmacy-storefront/internal/errors"
	"github.com/medikart/pharmacy-storefront/internal/models"
	service "github.com/medikart/pharmacy-storefront/internal/services"
	"github.com/medikart/pharmacy-storefront/internal/utils"
	"github.com/medikart/pharmacy-storefront/internal/utils/response"
)

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orders, err := h.orderService.ListOrders(r.Context())

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list orders", "error", err.Error())
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)

	}
}

func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		idStr := r.PathValue("id")

		id, err := strconv.ParseInt(idStr, 10, 64)

		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid order id"))

			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		customerEmail := r.URL.Query().Get("notify")

		if err := h.orderService.UpdateOrderStatus(r.Context(), id, &req, customerEmail); err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Order status update failed",
				"orderId", id,
				"error", err.Error(),
			)
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})

	}
}
