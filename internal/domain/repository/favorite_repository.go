// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"bistro/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for favorite persistence.
var (
	// ErrDuplicateFavorite is returned when the (user, product) pair is already stored.
	ErrDuplicateFavorite = errors.New("favorite already exists")
)

// FavoriteRepository defines the remote favorites collection of a signed-in user.
type FavoriteRepository interface {
	// ListFavorites returns the user's favorites newest first, joined with the product
	// display fields. Rows whose product no longer exists are skipped.
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]*entity.FavoriteEntry, error)

	// AddFavorite inserts the (user, product) pair.
	AddFavorite(ctx context.Context, userID uuid.UUID, productID string) error

	// RemoveFavorite deletes the (user, product) pair. Deleting a missing pair is not an error.
	RemoveFavorite(ctx context.Context, userID uuid.UUID, productID string) error

	// ClearFavorites deletes every favorite of the user.
	ClearFavorites(ctx context.Context, userID uuid.UUID) error
}
