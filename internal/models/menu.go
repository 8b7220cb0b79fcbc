package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DietaryTag marks a menu item as vegetarian or not
type DietaryTag string

const (
	Vegetarian    DietaryTag = "veg"
	NonVegetarian DietaryTag = "non-veg"
)

// ParseDietaryTag validates a dietary tag string
func ParseDietaryTag(s string) (DietaryTag, error) {
	switch DietaryTag(s) {
	case Vegetarian, NonVegetarian:
		return DietaryTag(s), nil
	default:
		return "", fmt.Errorf("dietary tag must be one of: veg, non-veg")
	}
}

// MenuItem is an immutable catalog entry
type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Dietary     DietaryTag      `json:"type"`
}
