package storefront

import (
	"net/http"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/models"
)

// ListMenu handles GET /menu?type=veg|non-veg
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())

	items := h.catalog.Items()
	if raw := r.URL.Query().Get("type"); raw != "" && raw != "all" {
		tag, err := models.ParseDietaryTag(raw)
		if err != nil {
			h.writeErrorBody(w, http.StatusBadRequest, err.Error(), requestID, map[string]interface{}{"field": "type"})
			return
		}
		items = h.catalog.Filter(tag)
	}

	views := make([]menuItemView, 0, len(items))
	for _, it := range items {
		views = append(views, toMenuItemView(it))
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": views,
		"count": len(views),
	}, requestID)
}
