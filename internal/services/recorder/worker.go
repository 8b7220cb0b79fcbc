// Package recorder consumes placed orders and writes them to the order history.
package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"digital-canteen/internal/database"
	"digital-canteen/internal/logger"
	"digital-canteen/internal/messaging"
	"digital-canteen/internal/models"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Notifier publishes status updates for recorded orders.
type Notifier interface {
	PublishNotification(ctx context.Context, msg *models.StatusUpdateMessage) error
}

// MessageSource delivers raw messages to a handler until ctx is done.
type MessageSource interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Worker records every order.placed message as an order record
type Worker struct {
	name     string
	db       DBPool
	source   MessageSource
	notifier Notifier
	logger   *logger.Logger
}

// NewWorker creates a new order recorder
func NewWorker(name string, db DBPool, source MessageSource, notifier Notifier, log *logger.Logger) *Worker {
	return &Worker{
		name:     name,
		db:       db,
		source:   source,
		notifier: notifier,
		logger:   log,
	}
}

// Start consumes until ctx is cancelled
func (w *Worker) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	w.logger.Info("worker_started", fmt.Sprintf("Order recorder %s started", w.name), requestID, map[string]interface{}{
		"worker_name": w.name,
	})

	err := w.source.StartConsuming(ctx, w.handleMessage)

	w.logger.Info("graceful_shutdown", "Stopping order recorder", requestID, nil)
	if cerr := w.source.Close(); cerr != nil {
		w.logger.Error("shutdown_failed", "Failed to close consumer", requestID, cerr, nil)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handleMessage processes one order.placed message
func (w *Worker) handleMessage(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var msg models.OrderPlacedMessage
	if err := messaging.ParseMessage(body, &msg); err != nil {
		w.logger.Error("message_parsing_failed", "Failed to parse order message", requestID, err, nil)
		return err
	}
	if err := validateMessage(&msg); err != nil {
		w.logger.Error("message_invalid", "Order message rejected", requestID, err, map[string]interface{}{
			"order_id": msg.OrderID,
		})
		return err
	}

	if msg.UserID == "" {
		// guest orders have no history to write to
		w.logger.Debug("order_skipped", fmt.Sprintf("Order %s has no account", msg.OrderID), requestID, nil)
		return nil
	}

	inserted, err := w.recordOrder(ctx, &msg)
	if err != nil {
		w.logger.Error("order_record_failed", fmt.Sprintf("Failed to record order %s", msg.OrderID), requestID, err, map[string]interface{}{
			"order_id": msg.OrderID,
			"user_id":  msg.UserID,
		})
		return err
	}
	if !inserted {
		w.logger.Debug("order_duplicate", fmt.Sprintf("Order %s was already recorded", msg.OrderID), requestID, nil)
		return nil
	}

	update := models.CreateStatusUpdateMessage(msg.OrderID, msg.UserID, string(models.StatusPlaced), w.name, msg.Total.StringFixed(2))
	if err := w.notifier.PublishNotification(ctx, update); err != nil {
		w.logger.Error("notification_publish_failed", "Failed to publish order notification", requestID, err, map[string]interface{}{
			"order_id": msg.OrderID,
		})
		// the record is written, a missing notification is not retried
	}

	w.logger.Debug("order_recorded", fmt.Sprintf("Recorded order %s", msg.OrderID), requestID, map[string]interface{}{
		"order_id":       msg.OrderID,
		"user_id":        msg.UserID,
		"payment_method": msg.PaymentMethod,
		"total":          msg.Total.String(),
	})
	return nil
}

// recordOrder inserts the record and reports whether a new row was written
func (w *Worker) recordOrder(ctx context.Context, msg *models.OrderPlacedMessage) (bool, error) {
	items, err := json.Marshal(msg.Items)
	if err != nil {
		return false, fmt.Errorf("failed to encode items: %w", err)
	}

	tag, err := w.db.Exec(ctx, database.InsertOrderRecordSQL,
		msg.OrderID,
		msg.UserID,
		msg.CustomerName,
		msg.DeliveryAddress,
		string(items),
		msg.Subtotal.String(),
		msg.Tax.String(),
		msg.Total.String(),
		string(msg.PaymentMethod),
		string(models.StatusPlaced),
		msg.PlacedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert order record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func validateMessage(msg *models.OrderPlacedMessage) error {
	switch {
	case msg.OrderID == "":
		return fmt.Errorf("%w: missing order id", messaging.ErrDiscard)
	case len(msg.Items) == 0:
		return fmt.Errorf("%w: order %s has no items", messaging.ErrDiscard, msg.OrderID)
	case msg.PlacedAt.IsZero():
		return fmt.Errorf("%w: order %s has no placement time", messaging.ErrDiscard, msg.OrderID)
	}

	switch msg.PaymentMethod {
	case models.MethodCard, models.MethodUPI, models.MethodWallet, models.MethodCashOnDelivery:
	default:
		return fmt.Errorf("%w: order %s has unknown payment method %q", messaging.ErrDiscard, msg.OrderID, msg.PaymentMethod)
	}
	return nil
}
