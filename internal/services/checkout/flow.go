// Package checkout validates delivery and payment input, charges the payment
// instrument and turns a cart into an order confirmation.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/models"
	"digital-canteen/internal/services/cart"
	"digital-canteen/internal/services/checkout/validation"
)

const sideEffectTimeout = 10 * time.Second

// OrderRecorder notes a placed order against the customer's profile.
type OrderRecorder interface {
	RecordOrder(ctx context.Context, uid, orderID string, placedAt time.Time) error
}

// OrderPublisher announces a placed order.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, msg *models.OrderPlacedMessage) error
}

// Request is one checkout attempt.
type Request struct {
	UserID    string
	RequestID string
	Delivery  models.DeliveryDetails
	Payment   models.PaymentInstrument
}

// Flow is the checkout state machine of a single session.
type Flow struct {
	mu           sync.Mutex
	state        State
	confirmation *models.OrderConfirmation

	gateway   Gateway
	recorder  OrderRecorder
	publisher OrderPublisher
	logger    *logger.Logger

	now        func() time.Time
	newOrderID func() string
}

// NewFlow creates a flow in the Editing state. recorder and publisher may be nil.
func NewFlow(gateway Gateway, recorder OrderRecorder, publisher OrderPublisher, log *logger.Logger) *Flow {
	if log == nil {
		log = logger.Discard()
	}
	return &Flow{
		state:      StateEditing,
		gateway:    gateway,
		recorder:   recorder,
		publisher:  publisher,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
		newOrderID: NewOrderID,
	}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Confirmation returns the last confirmation, if the flow reached Confirmed.
func (f *Flow) Confirmation() (models.OrderConfirmation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.confirmation == nil {
		return models.OrderConfirmation{}, false
	}
	return *f.confirmation, true
}

// Submit validates req, charges the payment and, on success, removes the
// charged lines from c and returns the confirmation. Lines added while the
// charge is in flight stay in the cart. Any failure leaves the flow in
// Editing with the cart untouched.
func (f *Flow) Submit(ctx context.Context, c *cart.Store, req Request) (models.OrderConfirmation, error) {
	f.mu.Lock()
	switch {
	case f.state == StateSubmitting || f.state == StateValidating:
		f.mu.Unlock()
		return models.OrderConfirmation{}, ErrSubmissionInProgress
	case c.IsEmpty() && f.state == StateConfirmed:
		f.mu.Unlock()
		return models.OrderConfirmation{}, ErrAlreadyConfirmed
	case c.IsEmpty():
		f.mu.Unlock()
		return models.OrderConfirmation{}, ErrEmptyCart
	}

	f.state = StateValidating
	if err := validation.ValidateCheckout(req.Delivery, req.Payment); err != nil {
		f.state = StateEditing
		f.mu.Unlock()
		return models.OrderConfirmation{}, err
	}

	lines := c.Lines()
	summary := c.Summary()
	f.state = StateSubmitting
	f.mu.Unlock()

	f.logger.Debug("payment_started", "Charging payment instrument", req.RequestID, map[string]interface{}{
		"payment_method": req.Payment.Method(),
		"total":          summary.Total.StringFixed(2),
	})

	err := f.gateway.Charge(ctx, summary.Total, req.Payment)
	if err == nil {
		err = ctx.Err()
	}

	f.mu.Lock()
	if err != nil {
		f.state = StateEditing
		f.mu.Unlock()
		return models.OrderConfirmation{}, fmt.Errorf("submit order: %w", err)
	}

	conf := models.OrderConfirmation{
		OrderID:  f.newOrderID(),
		Total:    summary.Total,
		Method:   req.Payment.Method(),
		PlacedAt: f.now(),
	}
	c.RemoveLines(lines)
	f.confirmation = &conf
	f.state = StateConfirmed
	f.mu.Unlock()

	f.logger.Info("order_confirmed", fmt.Sprintf("Order %s confirmed", conf.DisplayID()), req.RequestID, map[string]interface{}{
		"order_id":       conf.OrderID,
		"total":          conf.Total.StringFixed(2),
		"payment_status": conf.PaymentStatus(),
	})

	msg := &models.OrderPlacedMessage{
		OrderID:         conf.OrderID,
		UserID:          req.UserID,
		CustomerName:    req.Delivery.Name,
		DeliveryAddress: req.Delivery.Address,
		Items:           orderLines(lines),
		Subtotal:        summary.Subtotal,
		Tax:             summary.Tax,
		Total:           summary.Total,
		PaymentMethod:   conf.Method,
		PlacedAt:        conf.PlacedAt,
	}
	f.afterConfirm(ctx, req, msg)

	return conf, nil
}

// afterConfirm runs the best-effort side effects of a confirmed order.
// Failures are logged and never undo the confirmation.
func (f *Flow) afterConfirm(ctx context.Context, req Request, msg *models.OrderPlacedMessage) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if f.recorder != nil && req.UserID != "" {
		if err := f.recorder.RecordOrder(ctx, req.UserID, msg.OrderID, msg.PlacedAt); err != nil {
			werr := &ExternalWriteError{Op: "record order", Err: err}
			f.logger.Error("order_record_failed", "Failed to record order on profile", req.RequestID, werr, map[string]interface{}{
				"order_id": msg.OrderID,
				"user_id":  req.UserID,
			})
		}
	}

	if f.publisher != nil {
		if err := f.publisher.PublishOrderPlaced(ctx, msg); err != nil {
			werr := &ExternalWriteError{Op: "publish order", Err: err}
			f.logger.Error("order_publish_failed", "Failed to publish placed order", req.RequestID, werr, map[string]interface{}{
				"order_id": msg.OrderID,
			})
		}
	}
}

func orderLines(lines []cart.Line) []models.OrderLine {
	out := make([]models.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.OrderLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return out
}
