package profile

import (
	"context"
	"errors"
	"time"

	"digital-canteen/internal/services/identity"
)

// Store persists profiles.
type Store interface {
	Get(ctx context.Context, uid string) (Profile, error)
	// Upsert creates the profile or merges the set fields into the stored one.
	Upsert(ctx context.Context, p Profile) error
	// RecordOrder notes the last order placed by uid.
	RecordOrder(ctx context.Context, uid, orderID string, placedAt time.Time) error
	// TouchLastLogin creates p if missing, otherwise only updates lastLogin.
	TouchLastLogin(ctx context.Context, p Profile) error
}

// ForUser builds the default profile of a freshly signed-in user.
func ForUser(u identity.User, now time.Time) Profile {
	return Profile{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   now,
		LastLogin:   now,
	}
}

// Resolve loads the profile of u. A missing profile yields a default one;
// a permission error yields the basic identity fields so account pages
// still render.
func Resolve(ctx context.Context, store Store, u identity.User, now time.Time) (Profile, error) {
	p, err := store.Get(ctx, u.UID)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, ErrNotFound):
		return Profile{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: now}, nil
	case errors.Is(err, ErrPermissionDenied):
		return Profile{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName}, nil
	default:
		return Profile{}, err
	}
}
