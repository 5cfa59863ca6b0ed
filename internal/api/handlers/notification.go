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

type NotificationHandler struct {
	notificationService service.NotificationService
	validator           *validator.Validate
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, validator: validator.New()}
}

func (h *NotificationHandler) SendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.EmailNotificationRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		result, err := h.notificationService.SendEmail(r.Context(), &req)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Email notification failed",
				"recipient", req.To,
				"error", err.Error(),
			)
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusAccepted, result)

	}
}

func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		notifications, err := h.notificationService.ListNotifications(r.Context())

		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, notifications)

	}
}
