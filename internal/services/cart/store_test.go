package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-canteen/internal/models"
)

func menuItem(id int, price string) models.MenuItem {
	return models.MenuItem{
		ID:      id,
		Name:    "item",
		Price:   decimal.RequireFromString(price),
		Dietary: models.Vegetarian,
	}
}

func TestAddItem(t *testing.T) {
	t.Run("new line", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.AddItem(menuItem(1, "749"), 2))

		lines := s.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].ItemID)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.True(t, s.Subtotal().Equal(decimal.NewFromInt(1498)))
	})

	t.Run("merges existing line", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.AddItem(menuItem(1, "749"), 1))
		require.NoError(t, s.AddItem(menuItem(1, "749"), 3))

		lines := s.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 4, lines[0].Quantity)
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.AddItem(menuItem(3, "10"), 1))
		require.NoError(t, s.AddItem(menuItem(1, "10"), 1))
		require.NoError(t, s.AddItem(menuItem(3, "10"), 1))

		lines := s.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, 3, lines[0].ItemID)
		assert.Equal(t, 1, lines[1].ItemID)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		s := NewStore()
		assert.ErrorIs(t, s.AddItem(menuItem(1, "10"), 0), ErrInvalidQuantity)
		assert.ErrorIs(t, s.AddItem(menuItem(1, "10"), -2), ErrInvalidQuantity)
		assert.True(t, s.IsEmpty())
	})

	t.Run("line quantity bound leaves cart unchanged", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.AddItem(menuItem(1, "10"), MaxLineQuantity-1))
		assert.ErrorIs(t, s.AddItem(menuItem(1, "10"), 2), ErrQuantityLimit)
		assert.Equal(t, MaxLineQuantity-1, s.Lines()[0].Quantity)

		assert.ErrorIs(t, s.AddItem(menuItem(2, "10"), MaxLineQuantity+1), ErrQuantityLimit)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("line count bound", func(t *testing.T) {
		s := NewStore()
		for id := 1; id <= MaxLines; id++ {
			require.NoError(t, s.AddItem(menuItem(id, "1"), 1))
		}
		assert.ErrorIs(t, s.AddItem(menuItem(MaxLines+1, "1"), 1), ErrCartFull)
		assert.Equal(t, MaxLines, s.Len())

		// merging into an existing line is still allowed when full
		require.NoError(t, s.AddItem(menuItem(1, "1"), 1))
	})
}

func TestSetLineQuantity(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(menuItem(1, "100"), 2))
	require.NoError(t, s.AddItem(menuItem(2, "50"), 1))

	require.NoError(t, s.SetLineQuantity(1, 5))
	assert.Equal(t, 5, s.Lines()[0].Quantity)

	require.NoError(t, s.SetLineQuantity(99, 3), "unknown id is a no-op")
	assert.Equal(t, 2, s.Len())

	assert.ErrorIs(t, s.SetLineQuantity(1, MaxLineQuantity+1), ErrQuantityLimit)
	assert.Equal(t, 5, s.Lines()[0].Quantity)

	require.NoError(t, s.SetLineQuantity(1, 0))
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].ItemID)

	require.NoError(t, s.SetLineQuantity(2, -1))
	assert.True(t, s.IsEmpty())
}

func TestRemoveItem(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(menuItem(1, "100"), 2))

	s.RemoveItem(42)
	assert.Equal(t, 1, s.Len())

	s.RemoveItem(1)
	assert.True(t, s.IsEmpty())
	assert.True(t, s.Subtotal().IsZero())
}

func TestRemoveLines(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(menuItem(1, "100"), 2))
	require.NoError(t, s.AddItem(menuItem(2, "50"), 1))
	taken := s.Lines()

	require.NoError(t, s.AddItem(menuItem(2, "50"), 2))
	require.NoError(t, s.AddItem(menuItem(3, "10"), 1))

	s.RemoveLines(taken)

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].ItemID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 3, lines[1].ItemID)

	s.RemoveLines([]Line{{ItemID: 2, Quantity: 5}, {ItemID: 42, Quantity: 1}})
	assert.Equal(t, 1, s.Len())
}

func TestTotals(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(menuItem(1, "749"), 2))  // 1498
	require.NoError(t, s.AddItem(menuItem(2, "329"), 1))  // 329
	require.NoError(t, s.AddItem(menuItem(3, "12.99"), 3)) // 38.97

	sub := decimal.RequireFromString("1865.97")
	assert.True(t, s.Subtotal().Equal(sub), "subtotal %s", s.Subtotal())
	assert.True(t, s.Tax().Equal(decimal.RequireFromString("93.2985")), "tax %s", s.Tax())
	assert.True(t, s.Total().Equal(decimal.RequireFromString("1959.2685")), "total %s", s.Total())

	sum := s.Summary()
	assert.Equal(t, 6, sum.ItemCount)
	assert.True(t, sum.Total.Equal(s.Total()))
	assert.Equal(t, 6, s.ItemCount())
}

// Random operation sequences must keep the cart invariants.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	prices := map[int]decimal.Decimal{}
	for id := 1; id <= 8; id++ {
		prices[id] = decimal.NewFromInt(int64(rng.Intn(1500) + 1)).Div(decimal.NewFromInt(4))
	}

	s := NewStore()
	for step := 0; step < 2000; step++ {
		id := rng.Intn(8) + 1
		switch rng.Intn(3) {
		case 0:
			_ = s.AddItem(models.MenuItem{ID: id, Price: prices[id]}, rng.Intn(4))
		case 1:
			_ = s.SetLineQuantity(id, rng.Intn(14)-3)
		case 2:
			s.RemoveItem(id)
		}

		want := decimal.Zero
		seen := map[int]bool{}
		for _, l := range s.Lines() {
			require.GreaterOrEqual(t, l.Quantity, 1, "step %d", step)
			require.LessOrEqual(t, l.Quantity, MaxLineQuantity, "step %d", step)
			require.False(t, seen[l.ItemID], "duplicate line at step %d", step)
			seen[l.ItemID] = true
			want = want.Add(prices[l.ItemID].Mul(decimal.NewFromInt(int64(l.Quantity))))
		}

		require.True(t, s.Subtotal().Equal(want), "step %d", step)
		require.True(t, s.Tax().Equal(s.Subtotal().Mul(decimal.RequireFromString("0.05"))), "step %d", step)
		require.True(t, s.Total().Equal(s.Subtotal().Add(s.Tax())), "step %d", step)
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(menuItem(5, "329"), 2))
	require.NoError(t, s.AddItem(menuItem(1, "749"), 1))

	restored := NewStore()
	require.NoError(t, restored.Restore(s.Snapshot()))
	assert.Equal(t, s.Lines(), restored.Lines())
	assert.True(t, restored.Total().Equal(s.Total()))
}

func TestRestoreDropsEmptyLinesAndRejectsInvalid(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Restore(Snapshot{Lines: []Line{
		{ItemID: 1, UnitPrice: decimal.NewFromInt(10), Quantity: 0},
		{ItemID: 2, UnitPrice: decimal.NewFromInt(10), Quantity: 2},
	}}))
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 2, s.Lines()[0].ItemID)

	err := s.Restore(Snapshot{Lines: []Line{
		{ItemID: 3, UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		{ItemID: 3, UnitPrice: decimal.NewFromInt(10), Quantity: 1},
	}})
	require.Error(t, err)
	assert.Equal(t, 2, s.Lines()[0].ItemID, "failed restore leaves cart unchanged")

	err = s.Restore(Snapshot{Lines: []Line{{ItemID: 4, UnitPrice: decimal.NewFromInt(1), Quantity: MaxLineQuantity + 1}}})
	assert.ErrorIs(t, err, ErrQuantityLimit)
}
