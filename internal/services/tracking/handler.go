package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/money"
	"digital-canteen/internal/models"
	"digital-canteen/internal/services/identity"
)

// Handler serves the account order history
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new tracking handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

type orderLineView struct {
	ItemID   int    `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type orderView struct {
	OrderID       string          `json:"orderId"`
	DisplayID     string          `json:"displayId"`
	Items         []orderLineView `json:"items"`
	Total         string          `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	PlacedAt      time.Time       `json:"placedAt"`
}

func toView(rec models.OrderRecord) orderView {
	v := orderView{
		OrderID:       rec.OrderID,
		DisplayID:     "#" + rec.OrderID,
		Items:         make([]orderLineView, 0, len(rec.Items)),
		Total:         money.Format(rec.Total),
		PaymentMethod: string(rec.PaymentMethod),
		Status:        string(rec.Status),
		PlacedAt:      rec.PlacedAt,
	}
	for _, it := range rec.Items {
		v.Items = append(v.Items, orderLineView{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    money.Format(it.UnitPrice),
		})
	}
	return v
}

// ListOrders handles GET /orders?q=
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())

	user, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Please sign in to view your orders", requestID)
		return
	}

	query := r.URL.Query().Get("q")
	h.logger.Debug("request_received", "List orders request", requestID, map[string]interface{}{
		"user_id": user.UID,
		"query":   query,
	})

	records, err := h.service.ListOrders(r.Context(), user.UID, query, requestID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	views := make([]orderView, 0, len(records))
	for _, rec := range records {
		views = append(views, toView(rec))
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": views,
		"count":  len(views),
	}, requestID)
}

// GetOrder handles GET /orders/{orderId}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())

	user, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Please sign in to view your orders", requestID)
		return
	}

	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	rec, err := h.service.GetOrder(r.Context(), user.UID, orderID, requestID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, toView(rec), requestID)
}

// CancelOrder handles POST /orders/{orderId}/cancel
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, models.StatusCancelled)
}

// ConfirmDelivery handles POST /orders/{orderId}/delivered
func (h *Handler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, models.StatusDelivered)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, to models.OrderStatus) {
	requestID := logger.RequestIDFromContext(r.Context())

	user, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Please sign in to view your orders", requestID)
		return
	}

	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	rec, err := h.service.ChangeStatus(r.Context(), user.UID, orderID, to, requestID)
	switch {
	case errors.Is(err, ErrOrderNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
	case errors.Is(err, ErrInvalidTransition):
		h.writeErrorResponse(w, http.StatusConflict, fmt.Sprintf("Order is already %s", rec.Status), requestID)
	case err != nil:
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
	default:
		h.writeJSON(w, http.StatusOK, toView(rec), requestID)
	}
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
	h.writeJSON(w, statusCode, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}, requestID)
}
