package catalog

import (
	"context"

	"digital-canteen/internal/models"
)

// StaticProvider serves the built-in menu.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

func (StaticProvider) LoadItems(ctx context.Context) ([]models.MenuItem, error) {
	out := make([]models.MenuItem, len(defaultMenu))
	copy(out, defaultMenu)
	return out, nil
}

// DefaultItems returns a copy of the built-in menu, used to seed the database.
func DefaultItems() []models.MenuItem {
	items, _ := StaticProvider{}.LoadItems(context.Background())
	return items
}
