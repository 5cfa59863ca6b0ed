package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medikart/pharmacy-storefront/internal/errors"
	"github.com/medikart/pharmacy-storefront/internal/models"
	"github.com/medikart/pharmacy-storefront/pkg/sendgrid"
)

type NotificationService interface {
	SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.NotificationResponse, error)
	GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListNotifications(ctx context.Context) ([]*models.Notification, error)
}

// notificationService records every admin email in memory and delivers it via
// SendGrid. The log exists for the admin notifications screen; it is scoped
// to the process lifetime on purpose since the remote commerce API owns all
// durable state.
type notificationService struct {
	emailService sendgrid.EmailService

	mu      sync.Mutex
	records []*models.Notification
	byID    map[uuid.UUID]*models.Notification
}

func NewNotificationService(emailService sendgrid.EmailService) NotificationService {
	return &notificationService{
		emailService: emailService,
		byID:         make(map[uuid.UUID]*models.Notification),
	}
}

// SendEmail implements NotificationService.
func (n *notificationService) SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.NotificationResponse, error) {

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		Recipient: req.To,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	n.record(notification)

	if err := n.emailService.Send(ctx, req); err != nil {

		n.updateStatus(notification.ID, models.StatusFailed, err.Error())

		return nil, errors.ThirdPartyError("Failed to send email").WithError(err)
	}

	n.updateStatus(notification.ID, models.StatusSent, "")

	return &models.NotificationResponse{ID: notification.ID, Status: models.StatusSent}, nil
}

// GetNotification implements NotificationService.
func (n *notificationService) GetNotification(_ context.Context, id uuid.UUID) (*models.Notification, error) {

	n.mu.Lock()
	defer n.mu.Unlock()

	notification, ok := n.byID[id]
	if !ok {
		return nil, errors.NotFoundError("Notification not found")
	}

	copied := *notification

	return &copied, nil
}

// ListNotifications implements NotificationService. Most recent first.
func (n *notificationService) ListNotifications(_ context.Context) ([]*models.Notification, error) {

	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]*models.Notification, 0, len(n.records))

	for i := len(n.records) - 1; i >= 0; i-- {
		copied := *n.records[i]
		out = append(out, &copied)
	}

	return out, nil
}

func (n *notificationService) record(notification *models.Notification) {

	n.mu.Lock()
	defer n.mu.Unlock()

	n.records = append(n.records, notification)
	n.byID[notification.ID] = notification
}

func (n *notificationService) updateStatus(id uuid.UUID, status models.NotificationStatus, errMsg string) {

	n.mu.Lock()
	defer n.mu.Unlock()

	if notification, ok := n.byID[id]; ok {
		notification.Status = status
		notification.ErrorMessage = errMsg
		notification.UpdatedAt = time.Now()
	}
}
