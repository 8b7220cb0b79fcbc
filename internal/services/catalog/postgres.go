package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"digital-canteen/internal/models"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const selectMenuItems = `
	SELECT id, name, description, price::text, image, category, dietary
	FROM menu_items
	ORDER BY id`

const upsertMenuItem = `
	INSERT INTO menu_items (id, name, description, price, image, category, dietary)
	VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING`

// PostgresProvider reads the menu from the menu_items table.
type PostgresProvider struct {
	pool DBPool
}

func NewPostgresProvider(pool DBPool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

func (p *PostgresProvider) LoadItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := p.pool.Query(ctx, selectMenuItems)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var (
			item    models.MenuItem
			price   string
			dietary string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &price, &item.Image, &item.Category, &dietary); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}

		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("menu item %d price: %w", item.ID, err)
		}
		item.Dietary, err = models.ParseDietaryTag(dietary)
		if err != nil {
			return nil, fmt.Errorf("menu item %d: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}
	return items, nil
}

// Seed inserts items that are not already present.
func (p *PostgresProvider) Seed(ctx context.Context, items []models.MenuItem) (int, error) {
	inserted := 0
	for _, item := range items {
		tag, err := p.pool.Exec(ctx, upsertMenuItem,
			item.ID, item.Name, item.Description, item.Price.String(), item.Image, item.Category, string(item.Dietary))
		if err != nil {
			return inserted, fmt.Errorf("seed menu item %d: %w", item.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
