// Package usecase contains the application-specific business rules.
package usecase

import (
	"bistro/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// CartUsecase is the in-memory cart of the running session. It never fails.
// Every mutation, no-op removals included, is published to subscribers before it returns.
type CartUsecase interface {
	AddItem(product entity.CartProduct) entity.CartSnapshot
	UpdateQuantity(id int64, quantity int) entity.CartSnapshot
	RemoveItem(id int64) entity.CartSnapshot
	Clear() entity.CartSnapshot
	// Deduct removes the given quantities, leaving anything added since they were read.
	Deduct(ordered []entity.CartLine) entity.CartSnapshot

	Lines() []entity.CartLine
	TotalItems() int
	TotalPrice() decimal.Decimal
	Snapshot() entity.CartSnapshot

	Subscribe(listener func(entity.CartSnapshot)) (cancel func())
}
