package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-canteen/internal/models"
	"digital-canteen/internal/services/checkout"
	"digital-canteen/internal/services/identity"
	"digital-canteen/internal/services/profile"
)

func newTestManager(store Store, profiles profile.Store) *Manager {
	return NewManager(store, profiles, func() *checkout.Flow {
		return checkout.NewFlow(checkout.NewSimulatedGateway(0), nil, nil, nil)
	}, nil)
}

var samosa = models.MenuItem{ID: 17, Name: "Samosa", Price: decimal.NewFromInt(249), Dietary: models.Vegetarian}

func TestStartAnonymous(t *testing.T) {
	m := newTestManager(NewMemoryStore(time.Hour), nil)

	sc, err := m.Start(context.Background(), identity.User{}, "req")
	require.NoError(t, err)
	assert.False(t, sc.Identified())
	assert.NotEmpty(t, sc.Token)
	assert.True(t, sc.Cart.IsEmpty())
	assert.Equal(t, checkout.StateEditing, sc.Checkout.State())

	got, err := m.Get(sc.Token)
	require.NoError(t, err)
	assert.Same(t, sc, got)
}

func TestSessionsDoNotShareState(t *testing.T) {
	m := newTestManager(NewMemoryStore(time.Hour), nil)

	a, err := m.Start(context.Background(), identity.User{}, "")
	require.NoError(t, err)
	b, err := m.Start(context.Background(), identity.User{}, "")
	require.NoError(t, err)

	require.NoError(t, a.Cart.AddItem(samosa, 2))
	assert.True(t, b.Cart.IsEmpty())
	assert.NotSame(t, a.Checkout, b.Checkout)
}

func TestCartSurvivesSignInAgain(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	profiles := profile.NewMemoryStore()
	m := newTestManager(store, profiles)
	user := identity.User{UID: "u1", Email: "asha@example.com"}

	first, err := m.Start(ctx, user, "")
	require.NoError(t, err)
	require.NoError(t, first.Cart.AddItem(samosa, 3))
	require.NoError(t, m.Persist(ctx, first))
	require.NoError(t, m.End(first.Token))

	_, err = m.Get(first.Token)
	assert.ErrorIs(t, err, ErrUnknownSession)

	second, err := m.Start(ctx, user, "")
	require.NoError(t, err)
	require.Equal(t, 1, second.Cart.Len())
	assert.Equal(t, 3, second.Cart.Lines()[0].Quantity)

	p, err := profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, p.LastLogin.IsZero())
}

func TestPersistEmptyCartClears(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	m := newTestManager(store, nil)

	sc, err := m.Start(ctx, identity.User{UID: "u1", Email: "asha@example.com"}, "")
	require.NoError(t, err)
	require.NoError(t, sc.Cart.AddItem(samosa, 1))
	require.NoError(t, m.Persist(ctx, sc))

	sc.Cart.Clear()
	require.NoError(t, m.Persist(ctx, sc))

	_, err = store.Load(ctx, "user:u1", CartKey)
	assert.ErrorIs(t, err, ErrValueNotFound)
}

type brokenStore struct{ *MemoryStore }

func (*brokenStore) Load(ctx context.Context, scope, key string) ([]byte, error) {
	return []byte(`{"lines":[{"item_id":1,"quantity":99,"unit_price":"1"}]}`), nil
}

type failingProfiles struct{ *profile.MemoryStore }

func (failingProfiles) TouchLastLogin(ctx context.Context, p profile.Profile) error {
	return profile.ErrPermissionDenied
}

func TestStartToleratesFailures(t *testing.T) {
	m := newTestManager(&brokenStore{NewMemoryStore(time.Hour)}, failingProfiles{profile.NewMemoryStore()})

	sc, err := m.Start(context.Background(), identity.User{UID: "u1", Email: "asha@example.com"}, "")
	require.NoError(t, err)
	assert.True(t, sc.Cart.IsEmpty(), "invalid saved cart is discarded")
}

func TestEndUnknown(t *testing.T) {
	m := newTestManager(NewMemoryStore(0), nil)
	assert.True(t, errors.Is(m.End("nope"), ErrUnknownSession))
}

func TestSweep(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m := newTestManager(NewMemoryStore(0), nil)
	m.now = func() time.Time { return now }

	old, err := m.Start(context.Background(), identity.User{}, "")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	fresh, err := m.Start(context.Background(), identity.User{}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep(time.Hour))
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(old.Token)
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = m.Get(fresh.Token)
	assert.NoError(t, err)
}
