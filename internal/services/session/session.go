// Package session owns the per-session state of the storefront: who is
// signed in, their cart and their checkout flow.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/services/cart"
	"digital-canteen/internal/services/checkout"
	"digital-canteen/internal/services/identity"
	"digital-canteen/internal/services/profile"
)

var ErrUnknownSession = errors.New("unknown or expired session")

// Context is everything one session owns. It is created by Manager.Start
// and discarded by Manager.End.
type Context struct {
	Token     string
	User      identity.User
	Cart      *cart.Store
	Checkout  *checkout.Flow
	StartedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// Identified reports whether a user is signed in.
func (c *Context) Identified() bool {
	return c.User.UID != ""
}

// scope is the persistence key: the user id when signed in, otherwise the token.
func (c *Context) scope() string {
	if c.Identified() {
		return "user:" + c.User.UID
	}
	return "anon:" + c.Token
}

func (c *Context) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Context) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Manager tracks live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Context

	store    Store
	profiles profile.Store
	newFlow  func() *checkout.Flow
	logger   *logger.Logger
	now      func() time.Time
}

// NewManager creates a manager. profiles may be nil.
func NewManager(store Store, profiles profile.Store, newFlow func() *checkout.Flow, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Discard()
	}
	return &Manager{
		sessions: make(map[string]*Context),
		store:    store,
		profiles: profiles,
		newFlow:  newFlow,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a session for user; a zero user starts an anonymous session.
// The persisted cart is loaded once here. Load and profile failures are
// logged and the session starts anyway.
func (m *Manager) Start(ctx context.Context, user identity.User, requestID string) (*Context, error) {
	now := m.now()
	sc := &Context{
		Token:     uuid.NewString(),
		User:      user,
		Cart:      cart.NewStore(),
		Checkout:  m.newFlow(),
		StartedAt: now,
		lastSeen:  now,
	}

	if err := m.loadCart(ctx, sc); err != nil {
		m.logger.Error("cart_load_failed", "Failed to restore saved cart", requestID, err, map[string]interface{}{
			"user_id": user.UID,
		})
	}

	if sc.Identified() && m.profiles != nil {
		if err := m.profiles.TouchLastLogin(ctx, profile.ForUser(user, now)); err != nil {
			werr := &checkout.ExternalWriteError{Op: "touch last login", Err: err}
			m.logger.Error("profile_write_failed", "Failed to update last login", requestID, werr, map[string]interface{}{
				"user_id": user.UID,
			})
		}
	}

	m.mu.Lock()
	m.sessions[sc.Token] = sc
	m.mu.Unlock()

	m.logger.Info("session_started", "Session started", requestID, map[string]interface{}{
		"identified": sc.Identified(),
		"cart_lines": sc.Cart.Len(),
	})
	return sc, nil
}

// Get returns the live session for token.
func (m *Manager) Get(token string) (*Context, error) {
	m.mu.RLock()
	sc, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownSession
	}
	sc.touch(m.now())
	return sc, nil
}

// End tears the session down. The persisted cart is kept for the next sign-in.
func (m *Manager) End(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; !ok {
		return ErrUnknownSession
	}
	delete(m.sessions, token)
	return nil
}

// Persist saves the cart of sc, or clears the saved value when the cart is empty.
func (m *Manager) Persist(ctx context.Context, sc *Context) error {
	if sc.Cart.IsEmpty() {
		if err := m.store.Clear(ctx, sc.scope(), CartKey); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(sc.Cart.Snapshot())
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := m.store.Save(ctx, sc.scope(), CartKey, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Sweep ends sessions idle for longer than maxIdle and returns how many were removed.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for token, sc := range m.sessions {
		if sc.idleSince().Before(cutoff) {
			delete(m.sessions, token)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) loadCart(ctx context.Context, sc *Context) error {
	data, err := m.store.Load(ctx, sc.scope(), CartKey)
	if errors.Is(err, ErrValueNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	var snap cart.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}
	return sc.Cart.Restore(snap)
}
