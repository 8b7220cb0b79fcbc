// Package storefront serves the canteen HTTP API: menu, sessions, cart,
// checkout, profile and order history.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/services/catalog"
	"digital-canteen/internal/services/identity"
	"digital-canteen/internal/services/profile"
	"digital-canteen/internal/services/session"
	"digital-canteen/internal/services/tracking"
)

// HeaderSessionToken carries the session token on every session-bound request.
const HeaderSessionToken = "X-Session-Token"

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the storefront handler. Health and Orders may be nil.
type Deps struct {
	Catalog  *catalog.Catalog
	Sessions *session.Manager
	Identity identity.Provider
	Profiles profile.Store
	Orders   *tracking.Handler
	Health   Pinger
	Logger   *logger.Logger
}

// Handler handles HTTP requests for the storefront
type Handler struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
	identity identity.Provider
	profiles profile.Store
	orders   *tracking.Handler
	health   Pinger
	logger   *logger.Logger
	now      func() time.Time
}

// NewHandler creates a new storefront handler
func NewHandler(d Deps) *Handler {
	log := d.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		catalog:  d.Catalog,
		sessions: d.Sessions,
		identity: d.Identity,
		profiles: d.Profiles,
		orders:   d.Orders,
		health:   d.Health,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetupRoutes sets up the HTTP routes
func (h *Handler) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(h.withRequestID)
	r.Use(h.withLogging)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Get("/menu", h.ListMenu)
	r.Post("/sessions", h.StartSession)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)

		r.Delete("/sessions", h.EndSession)

		r.Get("/cart", h.GetCart)
		r.Post("/cart/items", h.AddCartItem)
		r.Put("/cart/items/{itemId}", h.UpdateCartItem)
		r.Delete("/cart/items/{itemId}", h.RemoveCartItem)

		r.Group(func(r chi.Router) {
			r.Use(h.requireUser)

			r.Get("/checkout", h.GetCheckout)
			r.Post("/checkout", h.SubmitCheckout)
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)

			if h.orders != nil {
				r.Get("/orders", h.orders.ListOrders)
				r.Get("/orders/{orderId}", h.orders.GetOrder)
				r.Post("/orders/{orderId}/cancel", h.orders.CancelOrder)
				r.Post("/orders/{orderId}/delivered", h.orders.ConfirmDelivery)
			}
		})
	})

	return r
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())

	healthy := true
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			h.logger.Error("health_check_failed", "Database ping failed", requestID, err, nil)
			healthy = false
		}
	}

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": h.now().Format(time.RFC3339),
		"service":   "storefront",
		"sessions":  h.sessions.Len(),
		"menuItems": h.catalog.Len(),
	}
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
		response["status"] = "unhealthy"
	}
	h.writeJSON(w, status, response, requestID)
}
