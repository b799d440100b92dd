package impl

import (
	"sync"
	"testing"

	"bistro/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func burger() entity.CartProduct {
	return entity.CartProduct{ID: 1, Name: "Burger", Price: decimal.NewFromInt(3500), Image: "burger.png"}
}

func TestCartService_AddItem_SameProductTwice(t *testing.T) {
	cart := NewCartService(newDiscardLogger())

	cart.AddItem(burger())
	assert.Equal(t, 1, cart.TotalItems())
	assert.True(t, decimal.NewFromInt(3500).Equal(cart.TotalPrice()))

	snapshot := cart.AddItem(burger())
	assert.Equal(t, 2, cart.TotalItems())
	assert.True(t, decimal.NewFromInt(7000).Equal(cart.TotalPrice()))

	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, int64(1), snapshot.Lines[0].ID)
	assert.Equal(t, 2, snapshot.Lines[0].Quantity)
	assert.Equal(t, 2, snapshot.TotalItems)
	assert.True(t, decimal.NewFromInt(7000).Equal(snapshot.TotalPrice))
}

func TestCartService_AddItem_OneLinePerProduct(t *testing.T) {
	cart := NewCartService(newDiscardLogger())

	ids := []int64{3, 1, 3, 2, 3, 1}
	for _, id := range ids {
		cart.AddItem(entity.CartProduct{ID: id, Name: "p", Price: decimal.NewFromInt(100)})
	}

	lines := cart.Lines()
	require.Len(t, lines, 3)

	// Lines keep the order of first insertion.
	assert.Equal(t, []int64{3, 1, 2}, []int64{lines[0].ID, lines[1].ID, lines[2].ID})
	assert.Equal(t, []int{3, 2, 1}, []int{lines[0].Quantity, lines[1].Quantity, lines[2].Quantity})
	assert.Equal(t, len(ids), cart.TotalItems())
}

func TestCartService_AddItem_KeepsFirstSnapshot(t *testing.T) {
	cart := NewCartService(newDiscardLogger())

	cart.AddItem(burger())

	repriced := burger()
	repriced.Name = "Big Burger"
	repriced.Price = decimal.NewFromInt(9000)
	cart.AddItem(repriced)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Burger", lines[0].Name)
	assert.True(t, decimal.NewFromInt(3500).Equal(lines[0].Price))
	assert.True(t, decimal.NewFromInt(7000).Equal(cart.TotalPrice()))
}

func TestCartService_AddItem_NegativePriceClamped(t *testing.T) {
	cart := NewCartService(newDiscardLogger())

	cart.AddItem(entity.CartProduct{ID: 9, Name: "Broken", Price: decimal.NewFromInt(-10)})

	assert.True(t, decimal.Zero.Equal(cart.TotalPrice()))
	assert.Equal(t, 1, cart.TotalItems())
}

func TestCartService_UpdateQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		quantity      int
		expectedLines int
		expectedItems int
	}{
		{name: "sets quantity", quantity: 4, expectedLines: 1, expectedItems: 4},
		{name: "zero removes the line", quantity: 0, expectedLines: 0, expectedItems: 0},
		{name: "negative removes the line", quantity: -5, expectedLines: 0, expectedItems: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cart := NewCartService(newDiscardLogger())
			cart.AddItem(burger())

			snapshot := cart.UpdateQuantity(1, tt.quantity)

			assert.Len(t, snapshot.Lines, tt.expectedLines)
			assert.Equal(t, tt.expectedItems, cart.TotalItems())
		})
	}
}

func TestCartService_UpdateQuantity_UnknownID(t *testing.T) {
	cart := NewCartService(newDiscardLogger())
	cart.AddItem(burger())

	cart.UpdateQuantity(42, 3)
	cart.UpdateQuantity(42, 0)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestCartService_RemoveItemAndClear(t *testing.T) {
	cart := NewCartService(newDiscardLogger())
	cart.AddItem(burger())
	cart.AddItem(entity.CartProduct{ID: 2, Name: "Fries", Price: decimal.NewFromInt(1200)})

	cart.RemoveItem(1)
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ID)

	cart.RemoveItem(1)
	assert.Len(t, cart.Lines(), 1)

	snapshot := cart.Clear()
	assert.Empty(t, snapshot.Lines)
	assert.Zero(t, cart.TotalItems())
	assert.True(t, decimal.Zero.Equal(cart.TotalPrice()))
}

func TestCartService_TotalPrice_SumsLines(t *testing.T) {
	cart := NewCartService(newDiscardLogger())

	cart.AddItem(entity.CartProduct{ID: 1, Price: decimal.RequireFromString("12.50")})
	cart.UpdateQuantity(1, 3)
	cart.AddItem(entity.CartProduct{ID: 2, Price: decimal.RequireFromString("0.25")})

	assert.True(t, decimal.RequireFromString("37.75").Equal(cart.TotalPrice()))
	assert.Equal(t, 4, cart.TotalItems())
}

func TestCartService_Subscribe_EveryMutationNotifies(t *testing.T) {
	cart := NewCartService(newDiscardLogger())

	var versions []uint64
	cancel := cart.Subscribe(func(snapshot entity.CartSnapshot) {
		versions = append(versions, snapshot.Version)
	})

	cart.AddItem(burger())
	cart.RemoveItem(99) // no-op still notifies
	cart.UpdateQuantity(1, 2)
	cart.Clear()

	assert.Equal(t, []uint64{1, 2, 3, 4}, versions)

	cancel()
	cart.AddItem(burger())
	assert.Len(t, versions, 4)
	assert.Equal(t, uint64(5), cart.Snapshot().Version)
}

func TestCartService_Subscribe_ListenerCanReadCart(t *testing.T) {
	cart := NewCartService(newDiscardLogger())

	var seen int
	cart.Subscribe(func(entity.CartSnapshot) {
		seen = cart.TotalItems()
	})

	cart.AddItem(burger())
	assert.Equal(t, 1, seen)
}

func TestCartService_LinesAreCopies(t *testing.T) {
	cart := NewCartService(newDiscardLogger())
	cart.AddItem(burger())

	lines := cart.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, cart.TotalItems())
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	cart := NewCartService(newDiscardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart.AddItem(burger())
		}()
	}
	wg.Wait()

	snapshot := cart.Snapshot()
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 50, snapshot.Lines[0].Quantity)
	assert.Equal(t, uint64(50), snapshot.Version)
}

func TestCartService_Deduct(t *testing.T) {
	t.Parallel()

	fries := entity.CartProduct{ID: 2, Name: "Frites", Price: decimal.NewFromInt(400)}

	tests := []struct {
		name     string
		ordered  []entity.CartLine
		expected map[int64]int
	}{
		{name: "whole cart ordered", ordered: []entity.CartLine{{ID: 1, Quantity: 2}, {ID: 2, Quantity: 1}}, expected: map[int64]int{}},
		{name: "line grew after it was read", ordered: []entity.CartLine{{ID: 1, Quantity: 1}, {ID: 2, Quantity: 1}}, expected: map[int64]int{1: 1}},
		{name: "line removed after it was read", ordered: []entity.CartLine{{ID: 7, Quantity: 1}}, expected: map[int64]int{1: 2, 2: 1}},
		{name: "nothing ordered", expected: map[int64]int{1: 2, 2: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cart := NewCartService(newDiscardLogger())
			cart.AddItem(burger())
			cart.AddItem(burger())
			cart.AddItem(fries)

			snapshot := cart.Deduct(tt.ordered)

			quantities := make(map[int64]int, len(snapshot.Lines))
			for _, line := range snapshot.Lines {
				quantities[line.ID] = line.Quantity
			}
			assert.Equal(t, tt.expected, quantities)
			assert.Equal(t, uint64(4), snapshot.Version)
		})
	}
}

func TestCartService_ConcurrentAdds_VersionsNeverGoBack(t *testing.T) {
	cart := NewCartService(newDiscardLogger())

	var (
		mu          sync.Mutex
		last        uint64
		regressions int
		delivered   int
	)
	cancel := cart.Subscribe(func(snapshot entity.CartSnapshot) {
		mu.Lock()
		defer mu.Unlock()

		if snapshot.Version <= last {
			regressions++
		}
		last = snapshot.Version
		delivered++
	})
	defer cancel()

	const workers, adds = 8, 200

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < adds; j++ {
				cart.AddItem(burger())
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, regressions)
	assert.Equal(t, uint64(workers*adds), last)
	assert.LessOrEqual(t, delivered, workers*adds)
}
