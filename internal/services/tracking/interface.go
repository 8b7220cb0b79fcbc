package tracking

import (
	"context"

	"digital-canteen/internal/models"
)

type OrderRepo interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.OrderRecord, error)
	Get(ctx context.Context, userID, orderID string) (models.OrderRecord, error)
	// UpdateStatus moves the order to status if it is currently in from and
	// reports whether a row changed.
	UpdateStatus(ctx context.Context, userID, orderID string, from, to models.OrderStatus) (bool, error)
}

// Notifier announces order status changes.
type Notifier interface {
	PublishNotification(ctx context.Context, msg *models.StatusUpdateMessage) error
}
