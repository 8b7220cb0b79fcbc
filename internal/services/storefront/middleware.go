package storefront

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/services/identity"
	"digital-canteen/internal/services/session"
)

const headerRequestID = "X-Request-Id"

type sessionKey struct{}

// withRequestID reuses the caller's X-Request-Id or generates one
func (h *Handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = logger.GenerateRequestID()
		}
		w.Header().Set(headerRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), requestID)))
	})
}

// withLogging logs the start and completion of every request
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.RequestIDFromContext(r.Context())

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
			})
	})
}

// requireSession resolves X-Session-Token to a live session. The session's
// user, if any, is exposed through identity.FromContext.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := logger.RequestIDFromContext(r.Context())

		token := r.Header.Get(HeaderSessionToken)
		if token == "" {
			h.writeErrorResponse(w, http.StatusUnauthorized, "Session token is required", requestID)
			return
		}
		sc, err := h.sessions.Get(token)
		if err != nil {
			h.writeErrorResponse(w, http.StatusUnauthorized, "Session not found or expired", requestID)
			return
		}

		ctx := r.Context()
		ctx = contextWithSession(ctx, sc)
		if sc.Identified() {
			ctx = identity.WithUser(ctx, sc.User)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser rejects anonymous sessions
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.FromContext(r.Context()); !ok {
			h.writeErrorResponse(w, http.StatusUnauthorized, "Please sign in to continue", logger.RequestIDFromContext(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func contextWithSession(ctx context.Context, sc *session.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, sc)
}

func sessionFrom(r *http.Request) *session.Context {
	sc, _ := r.Context().Value(sessionKey{}).(*session.Context)
	return sc
}
