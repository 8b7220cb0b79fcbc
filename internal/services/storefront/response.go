package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"digital-canteen/internal/services/cart"
	"digital-canteen/internal/services/catalog"
	"digital-canteen/internal/services/checkout"
	"digital-canteen/internal/services/checkout/validation"
	"digital-canteen/internal/services/profile"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into v, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.New("Content-Type must be application/json")
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("Invalid JSON format: %w", err)
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	h.writeErrorBody(w, statusCode, message, requestID, nil)
}

func (h *Handler) writeErrorBody(w http.ResponseWriter, statusCode int, message, requestID string, extra map[string]interface{}) {
	body := map[string]interface{}{
		"error":      message,
		"timestamp":  h.now().Format(time.RFC3339),
		"request_id": requestID,
	}
	for k, v := range extra {
		body[k] = v
	}
	h.writeJSON(w, statusCode, body, requestID)
}

// writeError maps a domain error to its HTTP status and body
func (h *Handler) writeError(w http.ResponseWriter, err error, requestID string) {
	var ve validation.ValidationError
	switch {
	case errors.As(err, &ve):
		h.writeErrorBody(w, http.StatusUnprocessableEntity, ve.Message, requestID, map[string]interface{}{"field": ve.Field})
	case errors.Is(err, checkout.ErrEmptyCart):
		h.writeErrorBody(w, http.StatusConflict, "Your cart is empty", requestID, map[string]interface{}{"redirect": "/menu"})
	case errors.Is(err, checkout.ErrSubmissionInProgress):
		h.writeErrorResponse(w, http.StatusConflict, "Your order is already being placed", requestID)
	case errors.Is(err, checkout.ErrAlreadyConfirmed):
		h.writeErrorResponse(w, http.StatusConflict, "This order has already been placed", requestID)
	case errors.Is(err, checkout.ErrPaymentDeclined):
		h.writeErrorResponse(w, http.StatusPaymentRequired, "Payment was declined. Please try another payment method", requestID)
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrQuantityLimit):
		h.writeErrorBody(w, http.StatusUnprocessableEntity, capitalize(err.Error()), requestID, map[string]interface{}{"field": "quantity"})
	case errors.Is(err, cart.ErrCartFull):
		h.writeErrorBody(w, http.StatusUnprocessableEntity, capitalize(err.Error()), requestID, map[string]interface{}{"field": "itemId"})
	case errors.Is(err, catalog.ErrItemNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, "Menu item not found", requestID)
	case errors.Is(err, profile.ErrPermissionDenied):
		h.writeErrorResponse(w, http.StatusForbidden, "You do not have permission to do this", requestID)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.writeErrorResponse(w, http.StatusServiceUnavailable, "Request was cancelled, please try again", requestID)
	default:
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
