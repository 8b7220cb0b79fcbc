package storefront

import (
	"context"
	"net/http"
	"strings"
	"time"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/models"
	"digital-canteen/internal/services/checkout"
	"digital-canteen/internal/services/identity"
)

const checkoutTimeout = 30 * time.Second

type deliveryRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type paymentRequest struct {
	Method         string `json:"method"`
	CardNumber     string `json:"cardNumber,omitempty"`
	CardName       string `json:"cardName,omitempty"`
	Expiry         string `json:"expiry,omitempty"`
	CVV            string `json:"cvv,omitempty"`
	UPIID          string `json:"upiId,omitempty"`
	WalletProvider string `json:"walletProvider,omitempty"`
	WalletPhone    string `json:"walletPhone,omitempty"`
}

type checkoutRequest struct {
	Delivery deliveryRequest `json:"delivery"`
	Payment  paymentRequest  `json:"payment"`
}

// instrument returns nil for an unknown method so validation reports it
func (p paymentRequest) instrument() models.PaymentInstrument {
	switch models.PaymentMethod(strings.ToLower(strings.TrimSpace(p.Method))) {
	case models.MethodCard:
		return models.CardPayment{Number: p.CardNumber, HolderName: p.CardName, Expiry: p.Expiry, CVV: p.CVV}
	case models.MethodUPI:
		return models.UPIPayment{ID: p.UPIID}
	case models.MethodWallet:
		return models.WalletPayment{Provider: models.WalletProvider(p.WalletProvider), Phone: p.WalletPhone}
	case models.MethodCashOnDelivery:
		return models.CashOnDelivery{}
	default:
		return nil
	}
}

// GetCheckout handles GET /checkout
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())
	sc := sessionFrom(r)

	body := map[string]interface{}{
		"state":    sc.Checkout.State().String(),
		"cart":     toCartView(sc.Cart),
		"canPlace": !sc.Cart.IsEmpty(),
	}
	if conf, ok := sc.Checkout.Confirmation(); ok {
		body["confirmation"] = toConfirmationView(conf)
	}
	h.writeJSON(w, http.StatusOK, body, requestID)
}

// SubmitCheckout handles POST /checkout
func (h *Handler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())
	sc := sessionFrom(r)
	user, _ := identity.FromContext(r.Context())

	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkoutTimeout)
	defer cancel()

	conf, err := sc.Checkout.Submit(ctx, sc.Cart, checkout.Request{
		UserID:    user.UID,
		RequestID: requestID,
		Delivery: models.DeliveryDetails{
			Name:    req.Delivery.Name,
			Phone:   req.Delivery.Phone,
			Address: req.Delivery.Address,
		},
		Payment: req.Payment.instrument(),
	})
	if err != nil {
		h.logger.Debug("checkout_rejected", "Checkout was not completed", requestID, map[string]interface{}{
			"reason": err.Error(),
			"state":  sc.Checkout.State().String(),
		})
		h.writeError(w, err, requestID)
		return
	}

	// the cart is empty now, drop its saved copy
	h.persistCart(ctx, sc, requestID)

	h.writeJSON(w, http.StatusCreated, toConfirmationView(conf), requestID)
}
