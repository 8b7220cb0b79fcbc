package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"digital-canteen/internal/models"
	"digital-canteen/internal/services/checkout/validation"
)

// Gateway charges a payment instrument.
type Gateway interface {
	Charge(ctx context.Context, amount decimal.Decimal, instrument models.PaymentInstrument) error
}

// SimulatedGateway stands in for a real payment processor.
// Every charge takes Delay; cards ending in 0000 are declined.
type SimulatedGateway struct {
	Delay time.Duration
}

// NewSimulatedGateway returns a gateway that waits delay before answering
func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay}
}

func (g *SimulatedGateway) Charge(ctx context.Context, amount decimal.Decimal, instrument models.PaymentInstrument) error {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	var card *models.CardPayment
	switch p := instrument.(type) {
	case models.CashOnDelivery, *models.CashOnDelivery:
		// collected on delivery, never charged
		return nil
	case models.CardPayment:
		card = &p
	case *models.CardPayment:
		card = p
	}

	if card != nil && strings.HasSuffix(validation.StripSpaces(card.Number), "0000") {
		return fmt.Errorf("charge %s: %w: insufficient funds", amount.StringFixed(2), ErrPaymentDeclined)
	}
	return nil
}
