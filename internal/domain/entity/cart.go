package entity

import (
	"github.com/shopspring/decimal"
)

// CartProduct is the display snapshot a caller supplies when adding a product to the cart.
type CartProduct struct {
	ID    int64           `json:"id"`    // Identifier of the product in the external catalog.
	Name  string          `json:"name"`  // Display name at add time.
	Price decimal.Decimal `json:"price"` // Unit price at add time.
	Image string          `json:"image"` // Opaque image reference.
}

// CartLine is one distinct product currently selected, with its quantity.
// Name, Price and Image are snapshots and never track live catalog changes.
type CartLine struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"` // Always >= 1 while the line exists.
}

// Subtotal returns price times quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is an immutable view of the cart handed to readers and subscribers.
type CartSnapshot struct {
	Version    uint64          `json:"version"`
	Lines      []CartLine      `json:"lines"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
