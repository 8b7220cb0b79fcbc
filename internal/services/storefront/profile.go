package storefront

import (
	"net/http"
	"strings"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/services/identity"
	"digital-canteen/internal/services/profile"
)

type updateProfileRequest struct {
	Name string `json:"name"`
}

// GetProfile handles GET /profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())
	user, _ := identity.FromContext(r.Context())

	p, err := profile.Resolve(r.Context(), h.profiles, user, h.now())
	if err != nil {
		h.logger.Error("profile_read_failed", "Failed to load profile", requestID, err, map[string]interface{}{
			"user_id": user.UID,
		})
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, toProfileView(p), requestID)
}

// UpdateProfile handles PUT /profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())
	user, _ := identity.FromContext(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		h.writeErrorBody(w, http.StatusUnprocessableEntity, "Please enter your name", requestID, map[string]interface{}{"field": "name"})
		return
	}

	update := profile.Profile{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: name,
		UpdatedAt:   h.now(),
	}
	if err := update.Validate(); err != nil {
		h.writeErrorBody(w, http.StatusUnprocessableEntity, "Your account has no valid email address", requestID, map[string]interface{}{"field": "email"})
		return
	}

	if err := h.profiles.Upsert(r.Context(), update); err != nil {
		h.logger.Error("profile_write_failed", "Failed to update profile", requestID, err, map[string]interface{}{
			"user_id": user.UID,
		})
		h.writeError(w, err, requestID)
		return
	}

	p, err := profile.Resolve(r.Context(), h.profiles, user, h.now())
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, toProfileView(p), requestID)
}
