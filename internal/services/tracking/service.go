package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/models"
)

// historyLimit caps how many orders an account page lists.
const historyLimit = 100

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("order status cannot change")
)

// Service provides order history for account pages
type Service struct {
	repo     OrderRepo
	notifier Notifier
	logger   *logger.Logger
}

// NewService creates a new tracking service. notifier may be nil.
func NewService(repo OrderRepo, notifier Notifier, logger *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// ListOrders returns the user's orders, newest first, filtered by query.
func (s *Service) ListOrders(ctx context.Context, userID, query, requestID string) ([]models.OrderRecord, error) {
	records, err := s.repo.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to query order history", requestID, err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}
	return Search(records, query), nil
}

// GetOrder returns one order of the user.
func (s *Service) GetOrder(ctx context.Context, userID, orderID, requestID string) (models.OrderRecord, error) {
	rec, err := s.repo.Get(ctx, userID, normalizeOrderID(orderID))
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return models.OrderRecord{}, err
		}
		s.logger.Error("db_query_failed", "Failed to query order", requestID, err, map[string]interface{}{
			"order_id": orderID,
		})
		return models.OrderRecord{}, fmt.Errorf("database error: %w", err)
	}
	return rec, nil
}

// ChangeStatus moves a placed order to delivered or cancelled and announces
// the change. Orders that already left placed cannot change again.
func (s *Service) ChangeStatus(ctx context.Context, userID, orderID string, to models.OrderStatus, requestID string) (models.OrderRecord, error) {
	if to != models.StatusDelivered && to != models.StatusCancelled {
		return models.OrderRecord{}, fmt.Errorf("%w: to %s", ErrInvalidTransition, to)
	}
	orderID = normalizeOrderID(orderID)

	changed, err := s.repo.UpdateStatus(ctx, userID, orderID, models.StatusPlaced, to)
	if err != nil {
		s.logger.Error("db_update_failed", "Failed to update order status", requestID, err, map[string]interface{}{
			"order_id": orderID,
		})
		return models.OrderRecord{}, fmt.Errorf("database error: %w", err)
	}

	rec, err := s.GetOrder(ctx, userID, orderID, requestID)
	if err != nil {
		return models.OrderRecord{}, err
	}
	if !changed {
		return rec, fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, orderID, rec.Status)
	}

	s.logger.Info("order_status_changed", fmt.Sprintf("Order %s is now %s", orderID, to), requestID, map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
		"status":   string(to),
	})

	if s.notifier != nil {
		update := models.CreateStatusUpdateMessage(orderID, userID, string(to), "customer", rec.Total.StringFixed(2))
		if err := s.notifier.PublishNotification(ctx, update); err != nil {
			s.logger.Error("notification_publish_failed", "Failed to publish status update", requestID, err, map[string]interface{}{
				"order_id": orderID,
			})
		}
	}
	return rec, nil
}

func normalizeOrderID(orderID string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(orderID), "#"))
}

// Search keeps the records whose id or any item name contains query,
// ignoring case. An empty query keeps everything.
func Search(records []models.OrderRecord, query string) []models.OrderRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	q = strings.TrimPrefix(q, "#")

	out := make([]models.OrderRecord, 0, len(records))
	for _, rec := range records {
		if matches(rec, q) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec models.OrderRecord, q string) bool {
	if strings.Contains(strings.ToLower(rec.OrderID), q) {
		return true
	}
	for _, item := range rec.Items {
		if strings.Contains(strings.ToLower(item.Name), q) {
			return true
		}
	}
	return false
}
