package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// sqlstate insufficient_privilege
const codeInsufficientPrivilege = "42501"

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const (
	selectProfile = `SELECT doc FROM profiles WHERE uid = $1`

	upsertProfile = `
		INSERT INTO profiles (uid, doc, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (uid) DO UPDATE
		SET doc = profiles.doc || EXCLUDED.doc, updated_at = now()`

	touchLastLogin = `
		INSERT INTO profiles (uid, doc, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (uid) DO UPDATE
		SET doc = profiles.doc || jsonb_build_object('lastLogin', EXCLUDED.doc -> 'lastLogin'), updated_at = now()`

	recordOrder = `
		UPDATE profiles
		SET doc = doc || jsonb_build_object('lastOrderId', $2::text, 'lastOrderAt', $3::text), updated_at = now()
		WHERE uid = $1`
)

// PostgresStore keeps each profile as a JSONB document in the profiles table.
type PostgresStore struct {
	pool DBPool
}

func NewPostgresStore(pool DBPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, uid string) (Profile, error) {
	var doc []byte
	if err := s.pool.QueryRow(ctx, selectProfile, uid).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, mapError("get profile", err)
	}

	var p Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile %s: %w", uid, err)
	}
	return p, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.write(ctx, "upsert profile", upsertProfile, p)
}

func (s *PostgresStore) TouchLastLogin(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.write(ctx, "touch last login", touchLastLogin, p)
}

func (s *PostgresStore) RecordOrder(ctx context.Context, uid, orderID string, placedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, recordOrder, uid, orderID, placedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return mapError("record order", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record order for %s: %w", uid, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) write(ctx context.Context, op, query string, p Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}
	if _, err := s.pool.Exec(ctx, query, p.UID, string(doc)); err != nil {
		return mapError(op, err)
	}
	return nil
}

func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeInsufficientPrivilege {
		return fmt.Errorf("%s: %w: %w", op, ErrPermissionDenied, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
