package service

import (
	"context"
	"log/slog"

	"github.com/medikart/pharmacy-storefront/internal/models"
	"github.com/medikart/pharmacy-storefront/pkg/commerce"
)

// OrderService backs the admin order screens and notifies customers when an
// order's status changes.
type OrderService struct {
	api           commerce.API
	notifications NotificationService
}

func NewOrderService(api commerce.API, notifications NotificationService) *OrderService {
	return &OrderService{api: api, notifications: notifications}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.api.ListOrders(ctx)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, req *models.UpdateOrderStatusRequest, customerEmail string) error {

	if err := s.api.UpdateOrderStatus(ctx, id, req.Status); err != nil {
		return err
	}

	if s.notifications == nil || customerEmail == "" {
		return nil
	}

	// Best effort: a failed email must not fail the status update itself.
	_, err := s.notifications.SendEmail(ctx, &models.EmailNotificationRequest{
		To:      customerEmail,
		Subject: "Your MediKart order update",
		Content: "Your order is now " + string(req.Status) + ".",
	})
	if err != nil {
		slog.Warn("Order status notification failed",
			slog.Int64("orderId", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}
