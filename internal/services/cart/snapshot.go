package cart

import (
	"errors"
	"fmt"
)

// Snapshot is the persisted form of a cart.
type Snapshot struct {
	Lines []Line `json:"lines"`
}

// Snapshot captures the current lines.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Lines: s.Lines()}
}

// Restore replaces the cart contents with snap. Lines with a quantity of
// zero or less are dropped. A snapshot that breaks the cart bounds or
// repeats an item id is rejected and the cart is left unchanged.
func (s *Store) Restore(snap Snapshot) error {
	lines := make([]Line, 0, len(snap.Lines))
	seen := make(map[int]struct{}, len(snap.Lines))

	for _, l := range snap.Lines {
		if l.Quantity <= 0 {
			continue
		}
		if l.Quantity > MaxLineQuantity {
			return fmt.Errorf("restore item %d: %w", l.ItemID, ErrQuantityLimit)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("restore item %d: negative unit price", l.ItemID)
		}
		if _, dup := seen[l.ItemID]; dup {
			return fmt.Errorf("restore item %d: %w", l.ItemID, errDuplicateLine)
		}
		seen[l.ItemID] = struct{}{}
		lines = append(lines, l)
	}
	if len(lines) > MaxLines {
		return fmt.Errorf("restore: %w", ErrCartFull)
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return nil
}

var errDuplicateLine = errors.New("duplicate line")
