package storefront

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/services/checkout"
	"digital-canteen/internal/services/session"
)

type addItemRequest struct {
	ItemID   int  `json:"itemId"`
	Quantity *int `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())
	h.writeJSON(w, http.StatusOK, toCartView(sessionFrom(r).Cart), requestID)
}

// AddCartItem handles POST /cart/items
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())
	sc := sessionFrom(r)

	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.catalog.Lookup(req.ItemID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	if err := sc.Cart.AddItem(item, quantity); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.logger.Debug("cart_updated", "Item added to cart", requestID, map[string]interface{}{
		"item_id":  item.ID,
		"quantity": quantity,
	})
	h.persistCart(r.Context(), sc, requestID)
	h.writeJSON(w, http.StatusOK, toCartView(sc.Cart), requestID)
}

// UpdateCartItem handles PUT /cart/items/{itemId}. A quantity of zero or
// less removes the line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())
	sc := sessionFrom(r)

	itemID, ok := h.itemIDParam(w, r, requestID)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if req.Quantity == nil {
		h.writeErrorBody(w, http.StatusBadRequest, "quantity is required", requestID, map[string]interface{}{"field": "quantity"})
		return
	}

	if err := sc.Cart.SetLineQuantity(itemID, *req.Quantity); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.persistCart(r.Context(), sc, requestID)
	h.writeJSON(w, http.StatusOK, toCartView(sc.Cart), requestID)
}

// RemoveCartItem handles DELETE /cart/items/{itemId}
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())
	sc := sessionFrom(r)

	itemID, ok := h.itemIDParam(w, r, requestID)
	if !ok {
		return
	}
	sc.Cart.RemoveItem(itemID)

	h.persistCart(r.Context(), sc, requestID)
	h.writeJSON(w, http.StatusOK, toCartView(sc.Cart), requestID)
}

func (h *Handler) itemIDParam(w http.ResponseWriter, r *http.Request, requestID string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "itemId"))
	if err != nil {
		h.writeErrorBody(w, http.StatusBadRequest, "Invalid item id", requestID, map[string]interface{}{"field": "itemId"})
		return 0, false
	}
	return id, true
}

// persistCart saves the cart; a failed save is logged and the request still succeeds
func (h *Handler) persistCart(ctx context.Context, sc *session.Context, requestID string) {
	if err := h.sessions.Persist(ctx, sc); err != nil {
		werr := &checkout.ExternalWriteError{Op: "persist cart", Err: err}
		h.logger.Error("cart_persist_failed", "Failed to save cart", requestID, werr, map[string]interface{}{
			"identified": sc.Identified(),
		})
	}
}
