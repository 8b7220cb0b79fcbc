package notification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/messaging"
	"digital-canteen/internal/models"
)

// MessageSource delivers raw messages to a handler until ctx is done.
type MessageSource interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Subscriber prints order status notifications
type Subscriber struct {
	source MessageSource
	out    io.Writer
	logger *logger.Logger
}

// NewSubscriber creates a new notification subscriber writing to stdout
func NewSubscriber(source MessageSource, log *logger.Logger) *Subscriber {
	return &Subscriber{
		source: source,
		out:    os.Stdout,
		logger: log,
	}
}

// Start consumes notifications until ctx is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.source.StartConsuming(ctx, s.handleNotification)

	s.logger.Info("graceful_shutdown", "Stopping notification subscriber", requestID, nil)
	if cerr := s.source.Close(); cerr != nil {
		s.logger.Error("shutdown_failed", "Failed to close consumer", requestID, cerr, nil)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handleNotification processes incoming status update notifications
func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var update models.StatusUpdateMessage
	if err := messaging.ParseMessage(body, &update); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return err
	}

	if _, err := fmt.Fprintln(s.out, formatNotification(&update)); err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}

	s.logger.Info("notification_displayed", "Notification displayed to user", requestID, map[string]interface{}{
		"order_id":   update.OrderID,
		"new_status": update.NewStatus,
		"changed_by": update.ChangedBy,
		"timestamp":  update.Timestamp.Format("2006-01-02 15:04:05"),
	})
	return nil
}

// formatNotification creates a human-readable notification message
func formatNotification(update *models.StatusUpdateMessage) string {
	timestamp := update.Timestamp.Format("2006-01-02 15:04:05")

	switch models.OrderStatus(update.NewStatus) {
	case models.StatusPlaced:
		return fmt.Sprintf("🧾 [%s] Order #%s placed. Total ₹%s.", timestamp, update.OrderID, update.Total)
	case models.StatusDelivered:
		return fmt.Sprintf("✅ [%s] Order #%s has been delivered. Enjoy your meal!", timestamp, update.OrderID)
	case models.StatusCancelled:
		return fmt.Sprintf("❌ [%s] Order #%s has been cancelled.", timestamp, update.OrderID)
	default:
		return fmt.Sprintf("📋 [%s] Order #%s is now '%s' (by %s).", timestamp, update.OrderID, update.NewStatus, update.ChangedBy)
	}
}
