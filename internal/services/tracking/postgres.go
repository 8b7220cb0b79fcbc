package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"digital-canteen/internal/database"
	"digital-canteen/internal/models"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresRepo reads order records written by the order recorder.
type PostgresRepo struct {
	pool DBPool
}

func NewPostgresRepo(pool DBPool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.OrderRecord, error) {
	rows, err := r.pool.Query(ctx, database.ListOrderRecordsByUserSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query order records: %w", err)
	}
	defer rows.Close()

	var records []models.OrderRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order records: %w", err)
	}
	return records, nil
}

func (r *PostgresRepo) Get(ctx context.Context, userID, orderID string) (models.OrderRecord, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, database.GetOrderRecordSQL, orderID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OrderRecord{}, ErrOrderNotFound
	}
	return rec, err
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, userID, orderID string, from, to models.OrderStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx, database.UpdateOrderRecordStatusSQL, string(to), orderID, userID, string(from))
	if err != nil {
		return false, fmt.Errorf("update status of %s: %w", orderID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanRecord(row pgx.Row) (models.OrderRecord, error) {
	var (
		rec    models.OrderRecord
		items  string
		total  string
		method string
		status string
	)
	if err := row.Scan(&rec.OrderID, &rec.UserID, &items, &total, &method, &status, &rec.PlacedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan order record: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &rec.Items); err != nil {
		return rec, fmt.Errorf("decode items of %s: %w", rec.OrderID, err)
	}
	t, err := decimal.NewFromString(total)
	if err != nil {
		return rec, fmt.Errorf("total of %s: %w", rec.OrderID, err)
	}
	rec.Total = t
	rec.PaymentMethod = models.PaymentMethod(method)
	rec.Status = models.OrderStatus(status)
	return rec, nil
}
