package session

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "anon:t1", CartKey, []byte(`{"lines":[]}`)))

	got, err := s.Load(ctx, "anon:t1", CartKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lines":[]}`, string(got))

	now = now.Add(2 * time.Hour)
	_, err = s.Load(ctx, "anon:t1", CartKey)
	assert.ErrorIs(t, err, ErrValueNotFound)
}

func TestMemoryStoreClearAndPurge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "a", CartKey, []byte("1")))
	require.NoError(t, s.Save(ctx, "b", CartKey, []byte("2")))
	require.NoError(t, s.Clear(ctx, "a", CartKey))

	_, err := s.Load(ctx, "a", CartKey)
	assert.ErrorIs(t, err, ErrValueNotFound)

	now = now.Add(time.Hour)
	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMemoryStoreWithoutTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	s.now = func() time.Time { return time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, s.Save(ctx, "a", CartKey, []byte("1")))
	_, err := s.Load(ctx, "a", CartKey)
	assert.NoError(t, err)
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewPostgresStore(mock, 24*time.Hour)
	s.now = func() time.Time { return now }

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_values")).
		WithArgs("user:u1", CartKey, `{"lines":[]}`, now.Add(24*time.Hour)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value::text FROM session_values")).
		WithArgs("user:u1", CartKey).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`{"lines":[]}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value::text FROM session_values")).
		WithArgs("user:u2", CartKey).
		WillReturnRows(pgxmock.NewRows([]string{"value"}))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_values WHERE scope")).
		WithArgs("user:u1", CartKey).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_values WHERE expires_at")).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, s.Save(ctx, "user:u1", CartKey, []byte(`{"lines":[]}`)))

	got, err := s.Load(ctx, "user:u1", CartKey)
	require.NoError(t, err)
	assert.Equal(t, `{"lines":[]}`, string(got))

	_, err = s.Load(ctx, "user:u2", CartKey)
	assert.ErrorIs(t, err, ErrValueNotFound)

	require.NoError(t, s.Clear(ctx, "user:u1", CartKey))

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value::text")).WithArgs("anon:x", CartKey).WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresStore(mock, time.Hour).Load(context.Background(), "anon:x", CartKey)
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, ErrValueNotFound)
}
