package impl

import (
	"context"
	"encoding/json"

	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// favoritesSource is one physical store behind the favorites collection.
// Errors returned by its methods are already typed with the domain error kinds.
type favoritesSource interface {
	kind() entity.FavoritesSource
	list(ctx context.Context) ([]entity.FavoriteEntry, error)
	add(ctx context.Context, productID string) error
	remove(ctx context.Context, productID string) error
	clear(ctx context.Context) error
}

// remoteFavorites is the favorites collection of one signed-in user in the backend.
type remoteFavorites struct {
	repo   repository.FavoriteRepository
	userID uuid.UUID
}

func (s *remoteFavorites) kind() entity.FavoritesSource { return entity.FavoritesSourceRemote }

func (s *remoteFavorites) list(ctx context.Context) ([]entity.FavoriteEntry, error) {
	rows, err := s.repo.ListFavorites(ctx, s.userID)
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to list remote favorites"))
	}

	entries := make([]entity.FavoriteEntry, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			entries = append(entries, *row)
		}
	}

	return dedupeFavorites(entries), nil
}

func (s *remoteFavorites) add(ctx context.Context, productID string) error {
	err := s.repo.AddFavorite(ctx, s.userID, productID)
	switch {
	case err == nil, errors.Is(err, repository.ErrDuplicateFavorite):
		return nil
	case errors.Is(err, repository.ErrProductNotFound):
		return errors.Wrap(domainerrors.ErrProductNotFound, "cannot favorite unknown product")
	default:
		return domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to add remote favorite"))
	}
}

func (s *remoteFavorites) remove(ctx context.Context, productID string) error {
	if err := s.repo.RemoveFavorite(ctx, s.userID, productID); err != nil {
		return domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to remove remote favorite"))
	}

	return nil
}

func (s *remoteFavorites) clear(ctx context.Context) error {
	if err := s.repo.ClearFavorites(ctx, s.userID); err != nil {
		return domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to clear remote favorites"))
	}

	return nil
}

// localFavorites is the JSON array of entries kept in device storage for anonymous use.
// It is read-only apart from clear: favoriting requires a session.
type localFavorites struct {
	store repository.LocalStore
	key   string
}

func (s *localFavorites) kind() entity.FavoritesSource { return entity.FavoritesSourceLocal }

// list returns an empty collection when nothing is stored under the key.
func (s *localFavorites) list(ctx context.Context) ([]entity.FavoriteEntry, error) {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return []entity.FavoriteEntry{}, nil
	}
	if err != nil {
		return nil, domainerrors.NewLocalStorageFailureError(errors.Wrap(err, "failed to read local favorites"))
	}

	var stored []entity.FavoriteEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, domainerrors.NewLocalStorageFailureError(errors.Wrap(err, "failed to decode local favorites"))
	}

	return dedupeFavorites(stored), nil
}

func (s *localFavorites) add(context.Context, string) error {
	return errors.Wrap(domainerrors.ErrSignInRequired, "favorites require a signed-in user")
}

func (s *localFavorites) remove(context.Context, string) error {
	return errors.Wrap(domainerrors.ErrSignInRequired, "favorites require a signed-in user")
}

func (s *localFavorites) clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return domainerrors.NewLocalStorageFailureError(errors.Wrap(err, "failed to clear local favorites"))
	}

	return nil
}

// dedupeFavorites keeps the first entry per product id and drops entries without an id.
func dedupeFavorites(entries []entity.FavoriteEntry) []entity.FavoriteEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]entity.FavoriteEntry, 0, len(entries))

	for _, entry := range entries {
		if entry.ID == "" {
			continue
		}
		if _, ok := seen[entry.ID]; ok {
			continue
		}
		seen[entry.ID] = struct{}{}
		out = append(out, entry)
	}

	return out
}
