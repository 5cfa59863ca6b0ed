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

type ProductHandler struct {
	productService *service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		products, err := h.productService.ListProducts(r.Context())

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list products", "error", err.Error())
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, products)

	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		idStr := r.PathValue("id")

		id, err := strconv.ParseInt(idStr, 10, 64)

		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)

		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)

	}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if req.SalePrice != nil && *req.SalePrice >= req.Price {
			response.Error(w, errors.AddValidationError("sale_price", "must be lower than price"))

			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Product creation failed", "error", err.Error())
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusCreated, product)

	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		idStr := r.PathValue("id")

		id, err := strconv.ParseInt(idStr, 10, 64)

		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Product update failed", "error", err.Error())
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)

	}
}
