package profile

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps profiles in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

func (s *MemoryStore) Get(ctx context.Context, uid string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[uid]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.profiles[p.UID]
	if !ok {
		s.profiles[p.UID] = p
		return nil
	}
	s.profiles[p.UID] = merge(cur, p)
	return nil
}

func (s *MemoryStore) TouchLastLogin(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.profiles[p.UID]
	if !ok {
		s.profiles[p.UID] = p
		return nil
	}
	cur.LastLogin = p.LastLogin
	s.profiles[p.UID] = cur
	return nil
}

func (s *MemoryStore) RecordOrder(ctx context.Context, uid, orderID string, placedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.profiles[uid]
	if !ok {
		return fmt.Errorf("record order for %s: %w", uid, ErrNotFound)
	}
	cur.LastOrderID = orderID
	cur.LastOrderAt = placedAt
	s.profiles[uid] = cur
	return nil
}

// merge overlays the set fields of p onto cur.
func merge(cur, p Profile) Profile {
	if p.Email != "" {
		cur.Email = p.Email
	}
	if p.DisplayName != "" {
		cur.DisplayName = p.DisplayName
	}
	if !p.CreatedAt.IsZero() {
		cur.CreatedAt = p.CreatedAt
	}
	if !p.LastLogin.IsZero() {
		cur.LastLogin = p.LastLogin
	}
	if !p.UpdatedAt.IsZero() {
		cur.UpdatedAt = p.UpdatedAt
	}
	if p.LastOrderID != "" {
		cur.LastOrderID = p.LastOrderID
		cur.LastOrderAt = p.LastOrderAt
	}
	if len(p.Extensions) > 0 {
		if cur.Extensions == nil {
			cur.Extensions = make(map[string]any, len(p.Extensions))
		}
		for k, v := range p.Extensions {
			cur.Extensions[k] = v
		}
	}
	return cur
}
