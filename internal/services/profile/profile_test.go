package profile

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-canteen/internal/services/identity"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{name: "valid", profile: Profile{UID: "u1", Email: "asha@example.com"}},
		{name: "missing uid", profile: Profile{Email: "asha@example.com"}, wantErr: true},
		{name: "missing email", profile: Profile{UID: "u1"}, wantErr: true},
		{name: "bad email", profile: Profile{UID: "u1", Email: "not-an-email"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfileKeepsUnknownFields(t *testing.T) {
	doc := `{"uid":"u1","email":"asha@example.com","name":"Asha","createdAt":"2025-01-02T03:04:05Z","hostel":"B","prefs":{"spicy":true}}`

	var p Profile
	require.NoError(t, json.Unmarshal([]byte(doc), &p))
	assert.Equal(t, "Asha", p.DisplayName)
	assert.Equal(t, 2025, p.CreatedAt.Year())
	assert.Equal(t, "B", p.Extensions["hostel"])
	assert.NotContains(t, p.Extensions, "uid")

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(out))
}

func TestProfileOmitsUnsetFields(t *testing.T) {
	out, err := json.Marshal(Profile{UID: "u1", Email: "asha@example.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"uid":"u1","email":"asha@example.com"}`, string(out))
}

func TestPostgresStore_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectProfile)).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"uid":"u1","email":"asha@example.com","name":"Asha"}`)))

	p, err := NewPostgresStore(mock).Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", p.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectProfile)).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}))

	_, err = NewPostgresStore(mock).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_PermissionDenied(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectProfile)).
		WithArgs("u1").
		WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for table profiles"})

	_, err = NewPostgresStore(mock).Get(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
}

func TestPostgresStore_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profiles")).
		WithArgs("u1", `{"uid":"u1","email":"asha@example.com","name":"Asha"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStore(mock)
	require.NoError(t, store.Upsert(context.Background(), Profile{UID: "u1", Email: "asha@example.com", DisplayName: "Asha"}))

	err = store.Upsert(context.Background(), Profile{UID: "u2", Email: "bad"})
	assert.Error(t, err, "invalid profile rejected before reaching the database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_TouchLastLogin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("'lastLogin', EXCLUDED.doc -> 'lastLogin'")).
		WithArgs("u1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := ForUser(identity.User{UID: "u1", Email: "asha@example.com"}, now)
	require.NoError(t, NewPostgresStore(mock).TouchLastLogin(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	placed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles")).
		WithArgs("u1", "K3J9X0QZ2", "2025-03-01T10:00:00Z").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles")).
		WithArgs("ghost", "K3J9X0QZ2", "2025-03-01T10:00:00Z").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := NewPostgresStore(mock)
	require.NoError(t, store.RecordOrder(context.Background(), "u1", "K3J9X0QZ2", placed))
	assert.ErrorIs(t, store.RecordOrder(context.Background(), "ghost", "K3J9X0QZ2", placed), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type errStore struct {
	MemoryStore
	err error
}

func (s *errStore) Get(ctx context.Context, uid string) (Profile, error) {
	return Profile{}, s.err
}

func TestResolve(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	user := identity.User{UID: "u1", Email: "asha@example.com"}

	t.Run("stored", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Upsert(context.Background(), Profile{UID: "u1", Email: "asha@example.com", DisplayName: "Asha"}))

		p, err := Resolve(context.Background(), store, user, now)
		require.NoError(t, err)
		assert.Equal(t, "Asha", p.Name())
	})

	t.Run("missing yields default", func(t *testing.T) {
		p, err := Resolve(context.Background(), NewMemoryStore(), user, now)
		require.NoError(t, err)
		assert.Equal(t, "User", p.Name())
		assert.Equal(t, now, p.CreatedAt)
	})

	t.Run("permission denied yields basic fields", func(t *testing.T) {
		p, err := Resolve(context.Background(), &errStore{err: ErrPermissionDenied}, user, now)
		require.NoError(t, err)
		assert.Equal(t, "u1", p.UID)
		assert.True(t, p.CreatedAt.IsZero())
	})

	t.Run("other errors surface", func(t *testing.T) {
		_, err := Resolve(context.Background(), &errStore{err: errors.New("timeout")}, user, now)
		assert.Error(t, err)
	})
}

func TestMemoryStoreMerge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	login := created.Add(48 * time.Hour)

	require.NoError(t, store.TouchLastLogin(ctx, Profile{UID: "u1", Email: "asha@example.com", DisplayName: "Asha", CreatedAt: created, LastLogin: created}))
	require.NoError(t, store.TouchLastLogin(ctx, Profile{UID: "u1", Email: "asha@example.com", CreatedAt: login, LastLogin: login}))
	require.NoError(t, store.Upsert(ctx, Profile{UID: "u1", Email: "asha@example.com", Extensions: map[string]any{"hostel": "B"}}))
	require.NoError(t, store.RecordOrder(ctx, "u1", "ABC123XYZ", login))

	p, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", p.DisplayName)
	assert.Equal(t, created, p.CreatedAt, "createdAt kept on later logins")
	assert.Equal(t, login, p.LastLogin)
	assert.Equal(t, "ABC123XYZ", p.LastOrderID)
	assert.Equal(t, "B", p.Extensions["hostel"])

	assert.ErrorIs(t, store.RecordOrder(ctx, "nobody", "X", login), ErrNotFound)
}
