package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/medikart/pharmacy-storefront/internal/api/middleware"
	"github.com/medikart/pharmacy-storefront/internal/errors"
	"github.com/medikart/pharmacy-storefront/internal/metrics"
	"github.com/medikart/pharmacy-storefront/internal/models"
	service "github.com/medikart/pharmacy-storefront/internal/services"
	"github.com/medikart/pharmacy-storefront/internal/utils"
	"github.com/medikart/pharmacy-storefront/internal/utils/response"
)

type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cart := h.cartService.Cart()

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), req.ProductID, req.Quantity)
		metrics.ObserveCartMutation("add", err)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Cart add failed",
				"productId", req.ProductID,
				"error", err.Error(),
			)
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), req.CartItemID, req.Quantity)
		metrics.ObserveCartMutation("update_quantity", err)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Cart quantity update failed",
				"cartItemId", req.CartItemID,
				"error", err.Error(),
			)
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		idStr := r.PathValue("id")

		id, err := strconv.ParseInt(idStr, 10, 64)

		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid cart item id"))

			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), id)
		metrics.ObserveCartMutation("remove", err)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Cart remove failed",
				"cartItemId", id,
				"error", err.Error(),
			)
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cart, err := h.cartService.ClearCart(r.Context())
		metrics.ObserveCartMutation("clear", err)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Cart clear failed", "error", err.Error())
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}
