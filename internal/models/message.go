package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlacedMessage is published once a checkout reaches Confirmed
type OrderPlacedMessage struct {
	OrderID         string          `json:"order_id"`
	UserID          string          `json:"user_id"`
	CustomerName    string          `json:"customer_name"`
	DeliveryAddress string          `json:"delivery_address"`
	Items           []OrderLine     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	PlacedAt        time.Time       `json:"placed_at"`
}

// StatusUpdateMessage represents a status update notification
type StatusUpdateMessage struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Total     string    `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateStatusUpdateMessage creates a StatusUpdateMessage for order status changes
func CreateStatusUpdateMessage(orderID, userID, newStatus, changedBy, total string) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		OrderID:   orderID,
		UserID:    userID,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Total:     total,
		Timestamp: time.Now().UTC(),
	}
}

// OrderPlacedRoutingKey generates the routing key for an order placed with method
func OrderPlacedRoutingKey(method PaymentMethod) string {
	return fmt.Sprintf("order.placed.%s", method)
}

// Record converts the message into the persisted order record
func (m *OrderPlacedMessage) Record() OrderRecord {
	return OrderRecord{
		OrderID:       m.OrderID,
		UserID:        m.UserID,
		Items:         m.Items,
		Total:         m.Total,
		PaymentMethod: m.PaymentMethod,
		Status:        StatusPlaced,
		PlacedAt:      m.PlacedAt,
	}
}
