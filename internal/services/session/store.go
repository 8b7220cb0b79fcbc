package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CartKey is the key the cart snapshot is stored under.
const CartKey = "digitalCanteenCart"

var ErrValueNotFound = errors.New("session value not found")

// Store persists small per-session values.
type Store interface {
	Load(ctx context.Context, scope, key string) ([]byte, error)
	Save(ctx context.Context, scope, key string, value []byte) error
	Clear(ctx context.Context, scope, key string) error
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryStore keeps values in process memory; entries expire after ttl.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore creates a store whose entries live for ttl. A ttl of zero keeps them forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, scope, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scope + "/" + key
	e, ok := s.data[k]
	if !ok {
		return nil, ErrValueNotFound
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		delete(s.data, k)
		return nil, ErrValueNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, scope, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{value: append([]byte(nil), value...)}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.data[scope+"/"+key] = e
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, scope, key string) error {
	s.mu.Lock()
	delete(s.data, scope+"/"+key)
	s.mu.Unlock()
	return nil
}

// PurgeExpired drops expired entries and returns how many were removed.
func (s *MemoryStore) PurgeExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for k, e := range s.data {
		if !e.expires.IsZero() && now.After(e.expires) {
			delete(s.data, k)
			n++
		}
	}
	return n, nil
}
