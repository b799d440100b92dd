package usecase

import (
	"context"

	"bistro/internal/domain/entity"
)

// FavoritesUsecase presents one favorites collection backed by the remote store when
// a user is signed in and by device-local storage otherwise.
type FavoritesUsecase interface {
	// Start performs the initial load and follows auth changes from then on. Calling it again is a no-op.
	Start(ctx context.Context) error

	// Stop detaches the store from auth changes.
	Stop()

	// LoadFavorites replaces the collection from the current source. Failures degrade
	// to the local copy, then to an empty collection, and are never returned.
	LoadFavorites(ctx context.Context)

	// ToggleFavorite removes the product when favorited and adds it otherwise.
	// It reports whether the product is a favorite afterwards.
	ToggleFavorite(ctx context.Context, product entity.FavoriteProduct) (bool, error)

	// ClearFavorites empties the collection in its current source and in memory.
	ClearFavorites(ctx context.Context) error

	IsFavorite(productID string) bool
	Count() int
	Favorites() []entity.FavoriteEntry
	Snapshot() entity.FavoritesSnapshot

	Subscribe(listener func(entity.FavoritesSnapshot)) (cancel func())
}
