package impl

import (
	"log/slog"
	"sync"

	"bistro/internal/domain/entity"
	"bistro/internal/usecase"

	"github.com/shopspring/decimal"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	mu       sync.RWMutex
	lines    []entity.CartLine // Insertion order of first add.
	version  uint64
	notifier notifier[entity.CartSnapshot]
	logger   *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(logger *slog.Logger) usecase.CartUsecase {
	return &cartService{
		notifier: notifier[entity.CartSnapshot]{version: cartVersion},
		logger:   logger,
	}
}

func cartVersion(snapshot entity.CartSnapshot) uint64 { return snapshot.Version }

// AddItem increments the line of the product by one, or appends a new line with quantity 1.
// An existing line keeps its original name, price and image.
func (srv *cartService) AddItem(product entity.CartProduct) entity.CartSnapshot {
	if product.Price.IsNegative() {
		srv.logger.Debug("Clamping negative cart price", "productID", product.ID, "price", product.Price.String())
		product.Price = decimal.Zero
	}

	return srv.mutate(func() {
		if i := srv.indexOf(product.ID); i >= 0 {
			srv.lines[i].Quantity++

			return
		}

		srv.lines = append(srv.lines, entity.CartLine{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Image:    product.Image,
			Quantity: 1,
		})
	})
}

// UpdateQuantity sets the quantity of an existing line. A quantity below 1 removes the line
// and an unknown id leaves the lines untouched.
func (srv *cartService) UpdateQuantity(id int64, quantity int) entity.CartSnapshot {
	return srv.mutate(func() {
		i := srv.indexOf(id)
		if i < 0 {
			return
		}

		if quantity <= 0 {
			srv.removeAt(i)

			return
		}

		srv.lines[i].Quantity = quantity
	})
}

// RemoveItem deletes the line of the product if present.
func (srv *cartService) RemoveItem(id int64) entity.CartSnapshot {
	return srv.mutate(func() {
		if i := srv.indexOf(id); i >= 0 {
			srv.removeAt(i)
		}
	})
}

// Clear empties the cart.
func (srv *cartService) Clear() entity.CartSnapshot {
	return srv.mutate(func() {
		srv.lines = nil
	})
}

// Deduct takes the quantities of ordered off the matching lines and drops lines that reach zero.
// Lines added or increased since ordered was read stay in the cart.
func (srv *cartService) Deduct(ordered []entity.CartLine) entity.CartSnapshot {
	return srv.mutate(func() {
		for _, line := range ordered {
			i := srv.indexOf(line.ID)
			if i < 0 {
				continue
			}

			srv.lines[i].Quantity -= line.Quantity
			if srv.lines[i].Quantity <= 0 {
				srv.removeAt(i)
			}
		}
	})
}

func (srv *cartService) Lines() []entity.CartLine {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.copyLines()
}

func (srv *cartService) TotalItems() int {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return totalItems(srv.lines)
}

func (srv *cartService) TotalPrice() decimal.Decimal {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return totalPrice(srv.lines)
}

func (srv *cartService) Snapshot() entity.CartSnapshot {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.snapshotLocked()
}

func (srv *cartService) Subscribe(listener func(entity.CartSnapshot)) func() {
	return srv.notifier.subscribe(listener)
}

// mutate applies fn under the write lock and publishes the resulting snapshot once the lock is released.
func (srv *cartService) mutate(fn func()) entity.CartSnapshot {
	srv.mu.Lock()
	fn()
	srv.version++
	snapshot := srv.snapshotLocked()
	srv.mu.Unlock()

	srv.logger.Debug("Cart changed", "version", snapshot.Version, "totalItems", snapshot.TotalItems)
	srv.notifier.publish(snapshot)

	return snapshot
}

func (srv *cartService) indexOf(id int64) int {
	for i := range srv.lines {
		if srv.lines[i].ID == id {
			return i
		}
	}

	return -1
}

func (srv *cartService) removeAt(i int) {
	srv.lines = append(srv.lines[:i:i], srv.lines[i+1:]...)
}

func (srv *cartService) copyLines() []entity.CartLine {
	lines := make([]entity.CartLine, len(srv.lines))
	copy(lines, srv.lines)

	return lines
}

func (srv *cartService) snapshotLocked() entity.CartSnapshot {
	return entity.CartSnapshot{
		Version:    srv.version,
		Lines:      srv.copyLines(),
		TotalItems: totalItems(srv.lines),
		TotalPrice: totalPrice(srv.lines),
	}
}

func totalItems(lines []entity.CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}

	return total
}

func totalPrice(lines []entity.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}

	return total
}
