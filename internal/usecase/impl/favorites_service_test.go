package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	mockRepo "bistro/internal/mocks/repository"
	"bistro/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testFavoritesKey = "@test_favorites"

const localFavoritesJSON = `[{"id":"p2","name":"Tarte","price":1800,"image_url":null,"addedAt":"2026-01-02T10:00:00Z"}]`

var fixedNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

type favoritesFixture struct {
	repo  *mockRepo.MockFavoriteRepository
	store *mockRepo.MockLocalStore
	auth  *stubAuth
	svc   *favoritesService
}

func newFavoritesFixture(t *testing.T, user *entity.User) *favoritesFixture {
	t.Helper()

	repo := mockRepo.NewMockFavoriteRepository(t)
	store := mockRepo.NewMockLocalStore(t)
	auth := newStubAuth(user)

	svc := NewFavoritesService(FavoritesServiceParams{
		Repo:   repo,
		Store:  store,
		Auth:   auth,
		Config: newTestConfig(),
		Logger: newDiscardLogger(),
	}).(*favoritesService)
	svc.now = func() time.Time { return fixedNow }

	return &favoritesFixture{repo: repo, store: store, auth: auth, svc: svc}
}

func salade() entity.FavoriteProduct {
	return entity.FavoriteProduct{ID: "p1", Name: "Salade", Price: decimal.NewFromInt(2500)}
}

func TestFavoritesService_Anonymous_LoadsLocalAndRejectsToggle(t *testing.T) {
	f := newFavoritesFixture(t, nil)
	ctx := context.Background()

	f.store.EXPECT().Get(ctx, testFavoritesKey).Return([]byte(localFavoritesJSON), nil).Once()

	require.NoError(t, f.svc.Start(ctx))

	favorites := f.svc.Favorites()
	require.Len(t, favorites, 1)
	assert.Equal(t, "p2", favorites[0].ID)
	assert.Equal(t, "Tarte", favorites[0].Name)
	assert.True(t, decimal.NewFromInt(1800).Equal(favorites[0].Price))
	assert.Nil(t, favorites[0].ImageURL)
	assert.Equal(t, entity.FavoritesSourceLocal, f.svc.Snapshot().Source)

	// No Set or Delete is expected on the store: the mock fails on any other call.
	favorite, err := f.svc.ToggleFavorite(ctx, salade())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrSignInRequired))
	assert.False(t, favorite)
	assert.False(t, f.svc.IsFavorite("p1"))
	assert.Equal(t, 1, f.svc.Count())
}

func TestFavoritesService_SignedIn_ToggleRoundTrip(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.repo.EXPECT().AddFavorite(ctx, user.ID, "p1").Return(nil).Once()
	f.repo.EXPECT().RemoveFavorite(ctx, user.ID, "p1").Return(nil).Once()

	require.NoError(t, f.svc.Start(ctx))
	assert.Equal(t, entity.FavoritesSourceRemote, f.svc.Snapshot().Source)

	favorite, err := f.svc.ToggleFavorite(ctx, salade())
	require.NoError(t, err)
	assert.True(t, favorite)
	assert.True(t, f.svc.IsFavorite("p1"))
	assert.Equal(t, 1, f.svc.Count())

	entry := f.svc.Favorites()[0]
	assert.Equal(t, "Salade", entry.Name)
	assert.Equal(t, fixedNow, entry.AddedAt)

	favorite, err = f.svc.ToggleFavorite(ctx, salade())
	require.NoError(t, err)
	assert.False(t, favorite)
	assert.False(t, f.svc.IsFavorite("p1"))
	assert.Zero(t, f.svc.Count())
}

func TestFavoritesService_Toggle_PrependsNewest(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{{ID: "old", Name: "Soupe"}}, nil).Once()
	f.repo.EXPECT().AddFavorite(ctx, user.ID, "p1").Return(nil).Once()

	require.NoError(t, f.svc.Start(ctx))
	_, err := f.svc.ToggleFavorite(ctx, salade())
	require.NoError(t, err)

	favorites := f.svc.Favorites()
	require.Len(t, favorites, 2)
	assert.Equal(t, "p1", favorites[0].ID)
	assert.Equal(t, "old", favorites[1].ID)
}

func TestFavoritesService_Load_RemoteFailureFallsBackToLocal(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return(nil, errors.New("connection refused")).Once()
	f.store.EXPECT().Get(ctx, testFavoritesKey).Return([]byte(localFavoritesJSON), nil).Once()

	require.NoError(t, f.svc.Start(ctx))

	snapshot := f.svc.Snapshot()
	assert.False(t, snapshot.Loading)
	assert.Equal(t, entity.FavoritesSourceLocal, snapshot.Source)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, "p2", snapshot.Entries[0].ID)
}

func TestFavoritesService_Load_DegradesToEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		signedIn  bool
		localData []byte
		localErr  error
	}{
		{name: "anonymous without stored data", localErr: repository.ErrKeyNotFound},
		{name: "anonymous with unreadable storage", localErr: errors.New("disk unavailable")},
		{name: "anonymous with malformed data", localData: []byte(`{"not":"an array"`)},
		{name: "remote and local both failing", signedIn: true, localErr: errors.New("disk unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var user *entity.User
			if tt.signedIn {
				user = newTestUser()
			}
			f := newFavoritesFixture(t, user)
			ctx := context.Background()

			if tt.signedIn {
				f.repo.EXPECT().ListFavorites(ctx, user.ID).Return(nil, errors.New("timeout")).Once()
			}
			f.store.EXPECT().Get(ctx, testFavoritesKey).Return(tt.localData, tt.localErr).Once()

			f.svc.LoadFavorites(ctx)

			snapshot := f.svc.Snapshot()
			assert.NotNil(t, snapshot.Entries)
			assert.Empty(t, snapshot.Entries)
			assert.False(t, snapshot.Loading)
		})
	}
}

func TestFavoritesService_Toggle_BackendFailureLeavesMemory(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.repo.EXPECT().AddFavorite(ctx, user.ID, "p1").Return(errors.New("503 from backend")).Once()

	require.NoError(t, f.svc.Start(ctx))
	before := f.svc.Snapshot().Version

	favorite, err := f.svc.ToggleFavorite(ctx, salade())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrBackendUnavailable))
	assert.False(t, favorite)
	assert.Zero(t, f.svc.Count())
	assert.Equal(t, before, f.svc.Snapshot().Version)
}

func TestFavoritesService_Toggle_DuplicateMeansFavorited(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.repo.EXPECT().AddFavorite(ctx, user.ID, "p1").Return(repository.ErrDuplicateFavorite).Once()

	require.NoError(t, f.svc.Start(ctx))

	favorite, err := f.svc.ToggleFavorite(ctx, salade())
	require.NoError(t, err)
	assert.True(t, favorite)
	assert.True(t, f.svc.IsFavorite("p1"))
}

func TestFavoritesService_Toggle_UnknownProduct(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.repo.EXPECT().AddFavorite(ctx, user.ID, "p1").Return(repository.ErrProductNotFound).Once()

	require.NoError(t, f.svc.Start(ctx))

	_, err := f.svc.ToggleFavorite(ctx, salade())
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
	assert.Zero(t, f.svc.Count())
}

func TestFavoritesService_Toggle_RequiresProductID(t *testing.T) {
	f := newFavoritesFixture(t, newTestUser())

	_, err := f.svc.ToggleFavorite(context.Background(), entity.FavoriteProduct{Name: "nameless"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestFavoritesService_Clear(t *testing.T) {
	t.Run("signed in clears the remote collection", func(t *testing.T) {
		user := newTestUser()
		f := newFavoritesFixture(t, user)
		ctx := context.Background()

		f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{{ID: "p1"}, {ID: "p3"}}, nil).Once()
		f.repo.EXPECT().ClearFavorites(ctx, user.ID).Return(nil).Once()

		require.NoError(t, f.svc.Start(ctx))
		require.NoError(t, f.svc.ClearFavorites(ctx))
		assert.Zero(t, f.svc.Count())
	})

	t.Run("signed in backend failure keeps memory", func(t *testing.T) {
		user := newTestUser()
		f := newFavoritesFixture(t, user)
		ctx := context.Background()

		f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{{ID: "p1"}}, nil).Once()
		f.repo.EXPECT().ClearFavorites(ctx, user.ID).Return(errors.New("boom")).Once()

		require.NoError(t, f.svc.Start(ctx))
		err := f.svc.ClearFavorites(ctx)
		assert.True(t, errors.Is(err, domainerrors.ErrBackendUnavailable))
		assert.Equal(t, 1, f.svc.Count())
	})

	t.Run("anonymous removes the local key", func(t *testing.T) {
		f := newFavoritesFixture(t, nil)
		ctx := context.Background()

		f.store.EXPECT().Get(ctx, testFavoritesKey).Return([]byte(localFavoritesJSON), nil).Once()
		f.store.EXPECT().Delete(ctx, testFavoritesKey).Return(nil).Once()

		require.NoError(t, f.svc.Start(ctx))
		require.NoError(t, f.svc.ClearFavorites(ctx))
		assert.Zero(t, f.svc.Count())
	})

	t.Run("anonymous storage failure is reported", func(t *testing.T) {
		f := newFavoritesFixture(t, nil)
		ctx := context.Background()

		f.store.EXPECT().Get(ctx, testFavoritesKey).Return([]byte(localFavoritesJSON), nil).Once()
		f.store.EXPECT().Delete(ctx, testFavoritesKey).Return(errors.New("read-only filesystem")).Once()

		require.NoError(t, f.svc.Start(ctx))
		err := f.svc.ClearFavorites(ctx)
		assert.True(t, errors.Is(err, domainerrors.ErrLocalStorageFailure))
		assert.Equal(t, 1, f.svc.Count())
	})
}

func TestFavoritesService_AuthChangesReload(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, nil)
	ctx := context.Background()

	f.store.EXPECT().Get(mock.Anything, testFavoritesKey).Return(nil, repository.ErrKeyNotFound).Twice()
	f.repo.EXPECT().
		ListFavorites(mock.Anything, user.ID).
		Return([]*entity.FavoriteEntry{{ID: "remote-1", Name: "Curry"}}, nil).
		Once()

	require.NoError(t, f.svc.Start(ctx))
	assert.Zero(t, f.svc.Count())

	f.auth.set(usecase.SessionEventSignedIn, user)
	assert.True(t, f.svc.IsFavorite("remote-1"))
	assert.Equal(t, entity.FavoritesSourceRemote, f.svc.Snapshot().Source)

	// Same identity, new metadata: no reload.
	renamed := *user
	renamed.FullName = "Ada Lovelace"
	f.auth.set(usecase.SessionEventUserUpdated, &renamed)
	assert.True(t, f.svc.IsFavorite("remote-1"))

	f.auth.set(usecase.SessionEventSignedOut, nil)
	assert.False(t, f.svc.IsFavorite("remote-1"))
	assert.Equal(t, entity.FavoritesSourceLocal, f.svc.Snapshot().Source)

	f.svc.Stop()
	f.auth.set(usecase.SessionEventSignedIn, user)
	assert.Zero(t, f.svc.Count())
}

func TestFavoritesService_Toggle_IdentityChangeInFlight(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.store.EXPECT().Get(mock.Anything, testFavoritesKey).Return(nil, repository.ErrKeyNotFound).Once()
	f.repo.EXPECT().
		AddFavorite(ctx, user.ID, "p1").
		RunAndReturn(func(context.Context, uuid.UUID, string) error {
			f.auth.set(usecase.SessionEventSignedOut, nil)

			return nil
		}).
		Once()

	require.NoError(t, f.svc.Start(ctx))

	favorite, err := f.svc.ToggleFavorite(ctx, salade())
	require.NoError(t, err)
	assert.True(t, favorite)

	// Memory now mirrors the anonymous collection.
	assert.False(t, f.svc.IsFavorite("p1"))
	assert.Equal(t, entity.FavoritesSourceLocal, f.svc.Snapshot().Source)
}

func TestFavoritesService_Toggle_SerializedPerProduct(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.repo.EXPECT().
		AddFavorite(ctx, user.ID, "p1").
		RunAndReturn(func(context.Context, uuid.UUID, string) error {
			time.Sleep(20 * time.Millisecond)

			return nil
		}).
		Once()
	f.repo.EXPECT().RemoveFavorite(ctx, user.ID, "p1").Return(nil).Once()

	require.NoError(t, f.svc.Start(ctx))

	var wg sync.WaitGroup
	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			favorite, err := f.svc.ToggleFavorite(ctx, salade())
			assert.NoError(t, err)
			results <- favorite
		}()
	}
	wg.Wait()
	close(results)

	var outcomes []bool
	for favorite := range results {
		outcomes = append(outcomes, favorite)
	}
	assert.ElementsMatch(t, []bool{true, false}, outcomes)
	assert.False(t, f.svc.IsFavorite("p1"))
}

func TestFavoritesService_Subscribe(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.repo.EXPECT().AddFavorite(ctx, user.ID, "p1").Return(nil).Once()

	var snapshots []entity.FavoritesSnapshot
	cancel := f.svc.Subscribe(func(snapshot entity.FavoritesSnapshot) {
		snapshots = append(snapshots, snapshot)
	})
	defer cancel()

	require.NoError(t, f.svc.Start(ctx))
	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[0].Loading)
	assert.False(t, snapshots[1].Loading)

	_, err := f.svc.ToggleFavorite(ctx, salade())
	require.NoError(t, err)

	require.Len(t, snapshots, 3)
	last := snapshots[2]
	assert.Greater(t, last.Version, snapshots[1].Version)
	require.Len(t, last.Entries, 1)
	assert.Equal(t, "p1", last.Entries[0].ID)
}

func TestDedupeFavorites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []entity.FavoriteEntry
		expected []string
	}{
		{name: "empty", input: nil, expected: []string{}},
		{name: "keeps first of duplicates", input: []entity.FavoriteEntry{{ID: "a", Name: "1"}, {ID: "b"}, {ID: "a", Name: "2"}}, expected: []string{"a", "b"}},
		{name: "drops entries without id", input: []entity.FavoriteEntry{{ID: ""}, {ID: "c"}}, expected: []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := dedupeFavorites(tt.input)

			ids := make([]string, 0, len(out))
			for _, entry := range out {
				ids = append(ids, entry.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestFavoritesService_BeforeStart_FollowsCurrentIdentity(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{{ID: "p3"}}, nil).Once()
	f.repo.EXPECT().AddFavorite(ctx, user.ID, "p1").Return(nil).Once()

	f.svc.LoadFavorites(ctx)
	assert.Equal(t, entity.FavoritesSourceRemote, f.svc.Snapshot().Source)
	assert.True(t, f.svc.IsFavorite("p3"))

	favorite, err := f.svc.ToggleFavorite(ctx, salade())
	require.NoError(t, err)
	assert.True(t, favorite)
	assert.Equal(t, 2, f.svc.Count())
}

// blockedList makes the next ListFavorites call wait until release is closed.
func (f *favoritesFixture) blockedList(userID uuid.UUID, result []*entity.FavoriteEntry) (started, release chan struct{}) {
	started = make(chan struct{})
	release = make(chan struct{})

	f.repo.EXPECT().
		ListFavorites(mock.Anything, userID).
		RunAndReturn(func(context.Context, uuid.UUID) ([]*entity.FavoriteEntry, error) {
			close(started)
			<-release

			return result, nil
		}).
		Once()

	return started, release
}

func (f *favoritesFixture) loadInBackground(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.svc.LoadFavorites(ctx)
	}()

	return done
}

func TestFavoritesService_ToggleDuringLoadSurvives(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{{ID: "p3"}}, nil).Once()
	require.NoError(t, f.svc.Start(ctx))

	// The reload reads the collection before the insert below reaches the backend.
	started, release := f.blockedList(user.ID, []*entity.FavoriteEntry{{ID: "p3"}})
	f.repo.EXPECT().AddFavorite(ctx, user.ID, "p1").Return(nil).Once()

	done := f.loadInBackground(ctx)
	<-started

	favorite, err := f.svc.ToggleFavorite(ctx, salade())
	require.NoError(t, err)
	assert.True(t, favorite)

	close(release)
	<-done

	snapshot := f.svc.Snapshot()
	assert.False(t, snapshot.Loading)
	assert.True(t, f.svc.IsFavorite("p1"))
	assert.True(t, f.svc.IsFavorite("p3"))
	assert.Equal(t, 2, f.svc.Count())
	assert.Equal(t, "p1", snapshot.Entries[0].ID)
}

func TestFavoritesService_ClearDuringLoadSurvives(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	require.NoError(t, f.svc.Start(ctx))

	started, release := f.blockedList(user.ID, []*entity.FavoriteEntry{{ID: "p1"}, {ID: "p3"}})
	f.repo.EXPECT().ClearFavorites(ctx, user.ID).Return(nil).Once()

	done := f.loadInBackground(ctx)
	<-started

	require.NoError(t, f.svc.ClearFavorites(ctx))

	close(release)
	<-done

	assert.Zero(t, f.svc.Count())
	assert.False(t, f.svc.Snapshot().Loading)
}

func TestFavoritesService_ClearWaitsForInFlightToggle(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	var (
		mu    sync.Mutex
		calls []string
	)
	record := func(call string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, call)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.repo.EXPECT().
		AddFavorite(ctx, user.ID, "p1").
		RunAndReturn(func(context.Context, uuid.UUID, string) error {
			close(started)
			<-release
			record("add")

			return nil
		}).
		Once()
	f.repo.EXPECT().
		ClearFavorites(ctx, user.ID).
		RunAndReturn(func(context.Context, uuid.UUID) error {
			record("clear")

			return nil
		}).
		Once()

	require.NoError(t, f.svc.Start(ctx))

	toggled := make(chan struct{})
	go func() {
		defer close(toggled)
		_, err := f.svc.ToggleFavorite(ctx, salade())
		assert.NoError(t, err)
	}()
	<-started

	cleared := make(chan struct{})
	go func() {
		defer close(cleared)
		assert.NoError(t, f.svc.ClearFavorites(ctx))
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	<-toggled
	<-cleared

	assert.Equal(t, []string{"add", "clear"}, calls)
	assert.False(t, f.svc.IsFavorite("p1"))
	assert.Zero(t, f.svc.Count())
}

func TestFavoritesService_Toggle_AnonymousFailsWithoutWaiting(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.store.EXPECT().Get(mock.Anything, testFavoritesKey).Return(nil, repository.ErrKeyNotFound).Once()
	f.repo.EXPECT().
		AddFavorite(ctx, user.ID, "p1").
		RunAndReturn(func(context.Context, uuid.UUID, string) error {
			close(started)
			<-release

			return nil
		}).
		Once()

	require.NoError(t, f.svc.Start(ctx))

	toggled := make(chan struct{})
	go func() {
		defer close(toggled)
		_, _ = f.svc.ToggleFavorite(ctx, salade())
	}()
	<-started

	f.auth.set(usecase.SessionEventSignedOut, nil)

	rejected := make(chan error, 1)
	go func() {
		_, err := f.svc.ToggleFavorite(ctx, salade())
		rejected <- err
	}()

	select {
	case err := <-rejected:
		assert.True(t, errors.Is(err, domainerrors.ErrSignInRequired))
	case <-time.After(time.Second):
		t.Fatal("anonymous toggle waited for the signed-in one")
	}

	close(release)
	<-toggled
	assert.Zero(t, f.svc.Count())
}

func TestFavoritesService_Subscribe_VersionsNeverGoBack(t *testing.T) {
	user := newTestUser()
	f := newFavoritesFixture(t, user)
	ctx := context.Background()

	f.repo.EXPECT().ListFavorites(ctx, user.ID).Return([]*entity.FavoriteEntry{}, nil).Once()
	f.repo.EXPECT().AddFavorite(ctx, user.ID, mock.Anything).Return(nil)

	var (
		mu          sync.Mutex
		last        uint64
		regressions int
	)
	cancel := f.svc.Subscribe(func(snapshot entity.FavoritesSnapshot) {
		mu.Lock()
		defer mu.Unlock()

		if snapshot.Version <= last {
			regressions++
		}
		last = snapshot.Version
	})
	defer cancel()

	require.NoError(t, f.svc.Start(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.ToggleFavorite(ctx, entity.FavoriteProduct{ID: id, Name: id})
			assert.NoError(t, err)
		}(uuid.NewString())
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, regressions)
	assert.Equal(t, f.svc.Snapshot().Version, last)
	assert.Equal(t, 16, f.svc.Count())
}
