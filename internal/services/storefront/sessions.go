package storefront

import (
	"errors"
	"net/http"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/services/identity"
)

// StartSession handles POST /sessions. The X-User-* headers, when present,
// make it an identified session.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())

	user, err := h.identity.CurrentUser(r)
	if err != nil && !errors.Is(err, identity.ErrNoUser) {
		h.logger.Error("identity_failed", "Failed to resolve user", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusUnauthorized, identity.UserMessage(err), requestID)
		return
	}

	sc, err := h.sessions.Start(r.Context(), user, requestID)
	if err != nil {
		h.logger.Error("session_start_failed", "Failed to start session", requestID, err, nil)
		h.writeError(w, err, requestID)
		return
	}

	w.Header().Set(HeaderSessionToken, sc.Token)
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":      sc.Token,
		"identified": sc.Identified(),
		"user":       toUserView(sc.User),
		"cart":       toCartView(sc.Cart),
	}, requestID)
}

// EndSession handles DELETE /sessions (sign out)
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())
	sc := sessionFrom(r)

	if err := h.sessions.End(sc.Token); err != nil {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Session not found or expired", requestID)
		return
	}

	h.logger.Info("session_ended", "Session ended", requestID, map[string]interface{}{
		"identified": sc.Identified(),
	})
	w.WriteHeader(http.StatusNoContent)
}
