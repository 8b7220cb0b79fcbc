// Package cart keeps the selected items of one session and computes its totals.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"digital-canteen/internal/models"
	"digital-canteen/internal/money"
)

const (
	// MaxLineQuantity bounds the quantity of a single line.
	MaxLineQuantity = 10
	// MaxLines bounds the number of distinct items in a cart.
	MaxLines = 20
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrQuantityLimit   = fmt.Errorf("quantity must be less than or equal to %d", MaxLineQuantity)
	ErrCartFull        = fmt.Errorf("a maximum of %d different items is allowed", MaxLines)
)

// Line pairs a menu item with a quantity of at least 1.
// Name and UnitPrice are captured when the item is first added.
type Line struct {
	ItemID    int             `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Amount returns UnitPrice × Quantity.
func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store holds the cart lines of one session in insertion order.
type Store struct {
	mu    sync.Mutex
	lines []Line
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

// AddItem adds quantity of item, merging into an existing line for the same id.
func (s *Store) AddItem(item models.MenuItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ID); i >= 0 {
		if s.lines[i].Quantity+quantity > MaxLineQuantity {
			return ErrQuantityLimit
		}
		s.lines[i].Quantity += quantity
		return nil
	}

	if quantity > MaxLineQuantity {
		return ErrQuantityLimit
	}
	if len(s.lines) >= MaxLines {
		return ErrCartFull
	}

	s.lines = append(s.lines, Line{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  quantity,
	})
	return nil
}

// SetLineQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line. Unknown ids are ignored.
func (s *Store) SetLineQuantity(itemID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(itemID)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		s.removeAt(i)
		return nil
	}
	if quantity > MaxLineQuantity {
		return ErrQuantityLimit
	}
	s.lines[i].Quantity = quantity
	return nil
}

// RemoveItem drops the line for itemID if present.
func (s *Store) RemoveItem(itemID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(itemID); i >= 0 {
		s.removeAt(i)
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// RemoveLines takes the given lines out of the cart, subtracting their
// quantities from the matching lines. Lines that drop to zero are removed;
// anything added after lines was captured stays in the cart.
func (s *Store) RemoveLines(lines []Line) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range lines {
		i := s.indexOf(l.ItemID)
		if i < 0 {
			continue
		}
		if s.lines[i].Quantity <= l.Quantity {
			s.removeAt(i)
			continue
		}
		s.lines[i].Quantity -= l.Quantity
	}
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// ItemCount returns the sum of all quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Subtotal is Σ(unit price × quantity).
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotal()
}

// Tax is 5% of the subtotal, not rounded.
func (s *Store) Tax() decimal.Decimal {
	return money.Tax(s.Subtotal())
}

// Total is subtotal plus tax.
func (s *Store) Total() decimal.Decimal {
	sub := s.Subtotal()
	return sub.Add(money.Tax(sub))
}

// Summary returns subtotal, tax and total computed from one consistent view of the lines.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	sub := s.subtotal()
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	s.mu.Unlock()

	tax := money.Tax(sub)
	return Summary{
		ItemCount: count,
		Subtotal:  sub,
		Tax:       tax,
		Total:     sub.Add(tax),
	}
}

// Summary is a consistent set of derived cart values.
type Summary struct {
	ItemCount int
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

func (s *Store) subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range s.lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

func (s *Store) indexOf(itemID int) int {
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}
