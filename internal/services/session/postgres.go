package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const (
	selectValue = `
		SELECT value::text FROM session_values
		WHERE scope = $1 AND key = $2 AND expires_at > now()`

	upsertValue = `
		INSERT INTO session_values (scope, key, value, expires_at)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (scope, key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	deleteValue = `DELETE FROM session_values WHERE scope = $1 AND key = $2`

	deleteExpired = `DELETE FROM session_values WHERE expires_at <= now()`
)

// PostgresStore keeps JSON session values in the session_values table.
type PostgresStore struct {
	pool DBPool
	ttl  time.Duration
	now  func() time.Time
}

func NewPostgresStore(pool DBPool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *PostgresStore) Load(ctx context.Context, scope, key string) ([]byte, error) {
	var value string
	if err := s.pool.QueryRow(ctx, selectValue, scope, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrValueNotFound
		}
		return nil, fmt.Errorf("load session value %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *PostgresStore) Save(ctx context.Context, scope, key string, value []byte) error {
	expires := s.now().Add(s.ttl).UTC()
	if _, err := s.pool.Exec(ctx, upsertValue, scope, key, string(value), expires); err != nil {
		return fmt.Errorf("save session value %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, scope, key string) error {
	if _, err := s.pool.Exec(ctx, deleteValue, scope, key); err != nil {
		return fmt.Errorf("clear session value %s: %w", key, err)
	}
	return nil
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, deleteExpired)
	if err != nil {
		return 0, fmt.Errorf("purge session values: %w", err)
	}
	return tag.RowsAffected(), nil
}
