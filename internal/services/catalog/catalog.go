// Package catalog loads the menu once and serves read-only lookups.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"digital-canteen/internal/models"
)

var ErrItemNotFound = errors.New("menu item not found")

// Provider supplies the menu items at startup.
type Provider interface {
	LoadItems(ctx context.Context) ([]models.MenuItem, error)
}

// Catalog is an immutable set of menu items in menu order.
type Catalog struct {
	items []models.MenuItem
	byID  map[int]int
}

// New builds a catalog from items. Ids must be unique and prices non-negative.
func New(items []models.MenuItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]models.MenuItem, 0, len(items)),
		byID:  make(map[int]int, len(items)),
	}

	for _, item := range items {
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("menu item %d: duplicate id", item.ID)
		}
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("menu item %d: name is required", item.ID)
		}
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("menu item %d: negative price", item.ID)
		}
		if _, err := models.ParseDietaryTag(string(item.Dietary)); err != nil {
			return nil, fmt.Errorf("menu item %d: %w", item.ID, err)
		}

		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// Load reads all items from p and builds the catalog.
func Load(ctx context.Context, p Provider) (*Catalog, error) {
	items, err := p.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	return New(items)
}

// Items returns a copy of all items.
func (c *Catalog) Items() []models.MenuItem {
	out := make([]models.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Lookup finds an item by id.
func (c *Catalog) Lookup(id int) (models.MenuItem, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.MenuItem{}, fmt.Errorf("item %d: %w", id, ErrItemNotFound)
	}
	return c.items[i], nil
}

// Filter returns the items carrying tag. An empty tag returns everything.
func (c *Catalog) Filter(tag models.DietaryTag) []models.MenuItem {
	if tag == "" {
		return c.Items()
	}

	var out []models.MenuItem
	for _, item := range c.items {
		if item.Dietary == tag {
			out = append(out, item)
		}
	}
	return out
}
