package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bistro/config"
	"bistro/internal/domain/constants"
	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/lifecycle"
	"bistro/internal/domain/repository"
	"bistro/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// favoritesService implements the FavoritesUsecase interface.
//
// The current source follows the signed-in identity. Each identity change bumps
// generation, so loads and toggles started under an older identity never write memory.
// Edits committed while a load is in flight are replayed onto its result.
type favoritesService struct {
	repo    repository.FavoriteRepository
	local   *localFavorites
	auth    usecase.AuthContext
	toggles *keyedMutex
	writes  sync.RWMutex // Toggles share it, clear holds it alone.
	now     func() time.Time
	logger  *slog.Logger

	mu         sync.RWMutex
	following  bool // Set once Start subscribed to auth changes.
	source     favoritesSource
	userID     *uuid.UUID
	generation uint64
	loadSeq    uint64 // Last load started. Only its result is applied.
	edits      []favoritesEdit
	entries    []entity.FavoriteEntry
	origin     entity.FavoritesSource // Where entries were read from.
	loading    bool
	version    uint64

	startOnce  sync.Once
	stopOnce   sync.Once
	cancelAuth func()
	notifier   notifier[entity.FavoritesSnapshot]
}

// FavoritesServiceParams holds dependencies for FavoritesService, injected by Fx.
type FavoritesServiceParams struct {
	fx.In

	Repo   repository.FavoriteRepository
	Store  repository.LocalStore
	Auth   usecase.AuthContext
	Config *config.Config
	Logger *slog.Logger
}

// favoritesEdit is one committed mutation of the collection.
type favoritesEdit func([]entity.FavoriteEntry) []entity.FavoriteEntry

// NewFavoritesService is the constructor for favoritesService. Until Start, every operation
// reads the identity from the auth context itself.
func NewFavoritesService(params FavoritesServiceParams) usecase.FavoritesUsecase {
	key := constants.DefaultFavoritesKey
	if params.Config != nil && params.Config.LocalStorage != nil && params.Config.LocalStorage.FavoritesKey != "" {
		key = params.Config.LocalStorage.FavoritesKey
	}

	local := &localFavorites{store: params.Store, key: key}

	return &favoritesService{
		repo:       params.Repo,
		local:      local,
		auth:       params.Auth,
		toggles:    newKeyedMutex(),
		now:        time.Now,
		logger:     params.Logger,
		source:     local,
		entries:    []entity.FavoriteEntry{},
		origin:     entity.FavoritesSourceLocal,
		cancelAuth: func() {},
		notifier:   notifier[entity.FavoritesSnapshot]{version: favoritesVersion},
	}
}

func favoritesVersion(snapshot entity.FavoritesSnapshot) uint64 { return snapshot.Version }

// Start selects the source for the current identity, subscribes to auth changes and loads.
func (srv *favoritesService) Start(ctx context.Context) error {
	srv.startOnce.Do(func() {
		cancel := srv.auth.Subscribe(srv.onSessionChange)

		srv.mu.Lock()
		srv.cancelAuth = cancel
		srv.followIdentityLocked()
		srv.following = true
		srv.mu.Unlock()

		srv.LoadFavorites(ctx)
	})

	return nil
}

func (srv *favoritesService) Stop() {
	srv.stopOnce.Do(func() {
		srv.mu.RLock()
		cancel := srv.cancelAuth
		srv.mu.RUnlock()

		cancel()
	})
}

// LoadFavorites replaces the collection with the content of the current source.
func (srv *favoritesService) LoadFavorites(ctx context.Context) {
	srv.followIdentity()

	srv.mu.Lock()
	srv.loadSeq++
	seq := srv.loadSeq
	source := srv.source
	srv.edits = nil
	srv.loading = true
	srv.version++
	snapshot := srv.snapshotLocked()
	srv.mu.Unlock()

	srv.notifier.publish(snapshot)

	entries, origin := srv.fetch(ctx, source)

	srv.mu.Lock()
	if seq != srv.loadSeq {
		srv.mu.Unlock()
		srv.logger.Debug("Discarding superseded favorites load", "source", string(origin))

		return
	}
	for _, edit := range srv.edits {
		entries = edit(entries)
	}
	srv.edits = nil
	srv.entries = entries
	srv.origin = origin
	srv.loading = false
	srv.version++
	snapshot = srv.snapshotLocked()
	srv.mu.Unlock()

	srv.logger.Debug("Favorites loaded", "source", string(origin), "count", len(entries))
	srv.notifier.publish(snapshot)
}

// fetch reads the source, degrading to the local copy and then to an empty collection.
func (srv *favoritesService) fetch(ctx context.Context, source favoritesSource) ([]entity.FavoriteEntry, entity.FavoritesSource) {
	entries, err := source.list(ctx)
	if err == nil {
		return entries, source.kind()
	}

	srv.logger.Warn("Failed to load favorites", "source", string(source.kind()), "error", err)

	if source.kind() == entity.FavoritesSourceLocal {
		return []entity.FavoriteEntry{}, entity.FavoritesSourceLocal
	}

	entries, err = srv.local.list(ctx)
	if err != nil {
		srv.logger.Warn("Failed to load local favorites fallback", "error", err)

		return []entity.FavoriteEntry{}, entity.FavoritesSourceLocal
	}

	return entries, entity.FavoritesSourceLocal
}

// ToggleFavorite writes the source first and applies the change to memory only on success.
// Toggles of one product run one at a time.
func (srv *favoritesService) ToggleFavorite(ctx context.Context, product entity.FavoriteProduct) (bool, error) {
	if product.ID == "" {
		return false, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("product id is required"), "invalid favorite")
	}

	srv.followIdentity()
	if srv.anonymous() {
		return false, errors.Wrap(domainerrors.ErrSignInRequired, "favorites require a signed-in user")
	}

	unlock := srv.toggles.lock(product.ID)
	defer unlock()
	srv.writes.RLock()
	defer srv.writes.RUnlock()

	srv.mu.RLock()
	source := srv.source
	generation := srv.generation
	favorited := indexOfFavorite(srv.entries, product.ID) >= 0
	srv.mu.RUnlock()

	var err error
	if favorited {
		err = source.remove(ctx, product.ID)
	} else {
		err = source.add(ctx, product.ID)
	}
	if err != nil {
		return favorited, errors.Wrap(err, "failed to toggle favorite")
	}

	srv.mu.Lock()
	if generation != srv.generation {
		srv.mu.Unlock()
		srv.logger.Debug("Identity changed during favorite toggle", "productID", product.ID)

		return !favorited, nil
	}

	if favorited {
		srv.applyLocked(removeFavorite(product.ID))
	} else {
		srv.applyLocked(addFavorite(entity.FavoriteEntry{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			ImageURL: product.ImageURL,
			AddedAt:  srv.now().UTC(),
		}))
	}
	srv.version++
	snapshot := srv.snapshotLocked()
	srv.mu.Unlock()

	srv.logger.Info("Favorite toggled", "productID", product.ID, "favorite", !favorited)
	srv.notifier.publish(snapshot)

	return !favorited, nil
}

// ClearFavorites empties the current source, then memory. It waits for in-flight toggles
// and holds new ones back until it is done.
func (srv *favoritesService) ClearFavorites(ctx context.Context) error {
	srv.followIdentity()

	srv.writes.Lock()
	defer srv.writes.Unlock()

	srv.mu.RLock()
	source := srv.source
	generation := srv.generation
	srv.mu.RUnlock()

	if err := source.clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear favorites")
	}

	srv.mu.Lock()
	if generation != srv.generation {
		srv.mu.Unlock()

		return nil
	}
	srv.applyLocked(clearFavorites)
	srv.version++
	snapshot := srv.snapshotLocked()
	srv.mu.Unlock()

	srv.logger.Info("Favorites cleared", "source", string(source.kind()))
	srv.notifier.publish(snapshot)

	return nil
}

func (srv *favoritesService) IsFavorite(productID string) bool {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return indexOfFavorite(srv.entries, productID) >= 0
}

func (srv *favoritesService) Count() int {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return len(srv.entries)
}

func (srv *favoritesService) Favorites() []entity.FavoriteEntry {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.copyEntries()
}

func (srv *favoritesService) Snapshot() entity.FavoritesSnapshot {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.snapshotLocked()
}

func (srv *favoritesService) Subscribe(listener func(entity.FavoritesSnapshot)) func() {
	return srv.notifier.subscribe(listener)
}

// onSessionChange swaps the source when the signed-in identity changes and reloads.
// A metadata update of the same user keeps the collection.
func (srv *favoritesService) onSessionChange(change usecase.SessionChange) {
	srv.mu.Lock()
	if sameIdentity(srv.userID, change.Current) {
		srv.mu.Unlock()

		return
	}
	srv.swapLocked(change.Current)
	srv.mu.Unlock()

	srv.logger.Info("Auth context changed, reloading favorites", "event", string(change.Event))

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	srv.LoadFavorites(ctx)
}

// followIdentity selects the source of the signed-in identity while the store is not yet
// following auth changes. From Start on, onSessionChange does it.
func (srv *favoritesService) followIdentity() {
	srv.mu.RLock()
	following := srv.following
	srv.mu.RUnlock()
	if following {
		return
	}

	srv.mu.Lock()
	if !srv.following {
		srv.followIdentityLocked()
	}
	srv.mu.Unlock()
}

// followIdentityLocked swaps to the source of the current identity when it differs.
// The auth context never calls back into the store while answering CurrentUser.
func (srv *favoritesService) followIdentityLocked() {
	if user := srv.auth.CurrentUser(); !sameIdentity(srv.userID, user) {
		srv.swapLocked(user)
	}
}

func (srv *favoritesService) anonymous() bool {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.userID == nil
}

func (srv *favoritesService) swapLocked(user *entity.User) {
	srv.generation++
	srv.loadSeq++
	srv.edits = nil

	if user == nil {
		srv.userID = nil
		srv.source = srv.local
	} else {
		id := user.ID
		srv.userID = &id
		srv.source = &remoteFavorites{repo: srv.repo, userID: id}
	}

	srv.entries = []entity.FavoriteEntry{}
	srv.origin = srv.source.kind()
}

// applyLocked runs edit on memory and keeps it for the load in flight, if any.
func (srv *favoritesService) applyLocked(edit favoritesEdit) {
	srv.entries = edit(srv.entries)
	if srv.loading {
		srv.edits = append(srv.edits, edit)
	}
}

func addFavorite(entry entity.FavoriteEntry) favoritesEdit {
	return func(entries []entity.FavoriteEntry) []entity.FavoriteEntry {
		if indexOfFavorite(entries, entry.ID) >= 0 {
			return entries
		}

		return append([]entity.FavoriteEntry{entry}, entries...)
	}
}

func removeFavorite(productID string) favoritesEdit {
	return func(entries []entity.FavoriteEntry) []entity.FavoriteEntry {
		i := indexOfFavorite(entries, productID)
		if i < 0 {
			return entries
		}

		return append(entries[:i:i], entries[i+1:]...)
	}
}

func clearFavorites([]entity.FavoriteEntry) []entity.FavoriteEntry {
	return []entity.FavoriteEntry{}
}

func (srv *favoritesService) copyEntries() []entity.FavoriteEntry {
	entries := make([]entity.FavoriteEntry, len(srv.entries))
	copy(entries, srv.entries)

	return entries
}

func (srv *favoritesService) snapshotLocked() entity.FavoritesSnapshot {
	return entity.FavoritesSnapshot{
		Version: srv.version,
		Source:  srv.origin,
		Loading: srv.loading,
		Entries: srv.copyEntries(),
	}
}

func indexOfFavorite(entries []entity.FavoriteEntry, productID string) int {
	for i := range entries {
		if entries[i].ID == productID {
			return i
		}
	}

	return -1
}

func sameIdentity(current *uuid.UUID, user *entity.User) bool {
	if current == nil || user == nil {
		return current == nil && user == nil
	}

	return *current == user.ID
}
