package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FavoriteEntry is a product marked as favorite by the current account context.
// The JSON shape is the one persisted in device-local storage.
type FavoriteEntry struct {
	ID       string          `json:"id"`        // Product identifier.
	Name     string          `json:"name"`      // Display snapshot.
	Price    decimal.Decimal `json:"price"`     // Display snapshot.
	ImageURL *string         `json:"image_url"` // Nil when the product has no image.
	AddedAt  time.Time       `json:"addedAt"`   // Remote insert time when signed in, local clock otherwise.
}

// FavoriteProduct is the display snapshot a caller supplies when toggling a favorite.
type FavoriteProduct struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL *string         `json:"image_url"`
}

// FavoritesSource names the physical store currently backing the favorites collection.
type FavoritesSource string

const (
	FavoritesSourceRemote FavoritesSource = "remote"
	FavoritesSourceLocal  FavoritesSource = "local"
)

// FavoritesSnapshot is an immutable view of the favorites collection.
type FavoritesSnapshot struct {
	Version uint64          `json:"version"`
	Source  FavoritesSource `json:"source"`
	Loading bool            `json:"loading"`
	Entries []FavoriteEntry `json:"entries"`
}
