package impl

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	"bistro/internal/domain/service"
	mockRepo "bistro/internal/mocks/repository"
	mockSvc "bistro/internal/mocks/service"
	"bistro/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSessionKey = "@test_session"

type sessionFixture struct {
	provider *mockSvc.MockAuthProvider
	tokens   *mockSvc.MockTokenService
	store    *mockRepo.MockLocalStore
	svc      *sessionService
	changes  []usecase.SessionChange
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		provider: mockSvc.NewMockAuthProvider(t),
		tokens:   mockSvc.NewMockTokenService(t),
		store:    mockRepo.NewMockLocalStore(t),
	}

	f.svc = NewSessionService(SessionServiceParams{
		Provider: f.provider,
		Tokens:   f.tokens,
		Store:    f.store,
		Config:   newTestConfig(),
		Logger:   newDiscardLogger(),
	}).(*sessionService)
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.Subscribe(func(change usecase.SessionChange) {
		f.changes = append(f.changes, change)
	})

	return f
}

func (f *sessionFixture) signedIn(user *entity.User, expiresAt time.Time) {
	f.svc.session = &entity.Session{
		User:         *user,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    expiresAt,
	}
}

func authTokens(user *entity.User, access string) *service.AuthTokens {
	return &service.AuthTokens{
		AccessToken:  access,
		RefreshToken: "refresh-" + access,
		ExpiresIn:    3600,
		User:         *user,
	}
}

func tokenClaims(user *entity.User) *entity.TokenClaims {
	return &entity.TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: fixedNow.Add(time.Hour),
	}
}

func TestSessionService_SignIn_Success(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	user := newTestUser()

	f.provider.EXPECT().SignInWithPassword(ctx, "ada@example.com", "secret1").Return(authTokens(user, "access-1"), nil).Once()
	f.tokens.EXPECT().ParseAccessToken("access-1").Return(tokenClaims(user), nil).Once()
	f.store.EXPECT().Set(ctx, testSessionKey, mock.AnythingOfType("[]uint8")).Return(nil).Once()

	signedIn, err := f.svc.SignIn(ctx, "  ada@example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	assert.Equal(t, user.ID, f.svc.CurrentUser().ID)
	session := f.svc.Current()
	require.NotNil(t, session)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, fixedNow.Add(time.Hour), session.ExpiresAt)

	require.Len(t, f.changes, 1)
	assert.Equal(t, usecase.SessionEventSignedIn, f.changes[0].Event)
	assert.Nil(t, f.changes[0].Previous)
	assert.Equal(t, user.ID, f.changes[0].Current.ID)
}

func TestSessionService_SignIn_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		email       string
		password    string
		providerErr error
		expectedErr error
	}{
		{name: "missing email", email: " ", password: "secret1", expectedErr: domainerrors.ErrValidationFailed},
		{name: "missing password", email: "ada@example.com", expectedErr: domainerrors.ErrValidationFailed},
		{name: "rejected credentials", email: "ada@example.com", password: "wrong", providerErr: service.ErrInvalidCredentials, expectedErr: domainerrors.ErrInvalidCredentials},
		{name: "backend down", email: "ada@example.com", password: "secret1", providerErr: errors.New("dial tcp: refused"), expectedErr: domainerrors.ErrBackendUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newSessionFixture(t)
			ctx := context.Background()

			if tt.providerErr != nil {
				f.provider.EXPECT().SignInWithPassword(ctx, tt.email, tt.password).Return(nil, tt.providerErr).Once()
			}

			user, err := f.svc.SignIn(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
			assert.Nil(t, user)
			assert.Nil(t, f.svc.CurrentUser())
			assert.Empty(t, f.changes)
		})
	}
}

func TestSessionService_SignIn_UnusableToken(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	user := newTestUser()

	f.provider.EXPECT().SignInWithPassword(ctx, user.Email, "secret1").Return(authTokens(user, "garbage"), nil).Once()
	f.tokens.EXPECT().ParseAccessToken("garbage").Return(nil, errors.Wrap(domainerrors.ErrTokenInvalid, "malformed")).Once()

	_, err := f.svc.SignIn(ctx, user.Email, "secret1")
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
	assert.Nil(t, f.svc.CurrentUser())
}

func TestSessionService_SignUp(t *testing.T) {
	validInput := func() *usecase.SignUpInput {
		return &usecase.SignUpInput{
			FullName:        " Ada ",
			Email:           "ada@example.com",
			Password:        "secret1",
			ConfirmPassword: "secret1",
		}
	}

	t.Run("email confirmation pending", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()

		f.provider.EXPECT().SignUp(ctx, "ada@example.com", "secret1", service.UserMetadata{FullName: "Ada"}).Return(nil, nil).Once()

		user, err := f.svc.SignUp(ctx, validInput())
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.Nil(t, f.svc.CurrentUser())
		assert.Empty(t, f.changes)
	})

	t.Run("session handed out right away", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()
		created := newTestUser()

		f.provider.EXPECT().SignUp(ctx, "ada@example.com", "secret1", service.UserMetadata{FullName: "Ada"}).Return(authTokens(created, "access-9"), nil).Once()
		f.tokens.EXPECT().ParseAccessToken("access-9").Return(tokenClaims(created), nil).Once()
		f.store.EXPECT().Set(ctx, testSessionKey, mock.Anything).Return(nil).Once()

		user, err := f.svc.SignUp(ctx, validInput())
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.ID, f.svc.CurrentUser().ID)
		require.Len(t, f.changes, 1)
		assert.Equal(t, usecase.SessionEventSignedIn, f.changes[0].Event)
	})

	t.Run("passwords differ", func(t *testing.T) {
		f := newSessionFixture(t)
		input := validInput()
		input.ConfirmPassword = "secret2"

		_, err := f.svc.SignUp(context.Background(), input)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		assert.Contains(t, err.Error(), "confirm_password")
	})

	t.Run("password too short", func(t *testing.T) {
		f := newSessionFixture(t)
		input := validInput()
		input.Password = "abc"
		input.ConfirmPassword = "abc"

		_, err := f.svc.SignUp(context.Background(), input)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		assert.Contains(t, err.Error(), "password must be at least 6 characters")
	})

	t.Run("email taken", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()

		f.provider.EXPECT().SignUp(ctx, "ada@example.com", "secret1", mock.Anything).Return(nil, service.ErrUserAlreadyRegistered).Once()

		_, err := f.svc.SignUp(ctx, validInput())
		assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
	})
}

func TestSessionService_Restore(t *testing.T) {
	user := newTestUser()

	persisted := func(t *testing.T, expiresAt time.Time) []byte {
		t.Helper()

		data, err := json.Marshal(entity.Session{
			User:         *user,
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresAt:    expiresAt,
		})
		require.NoError(t, err)

		return data
	}

	t.Run("nothing persisted", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()

		f.store.EXPECT().Get(ctx, testSessionKey).Return(nil, repository.ErrKeyNotFound).Once()

		require.NoError(t, f.svc.Restore(ctx))
		assert.Nil(t, f.svc.CurrentUser())
		assert.Empty(t, f.changes)
	})

	t.Run("valid session", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()

		f.store.EXPECT().Get(ctx, testSessionKey).Return(persisted(t, fixedNow.Add(time.Hour)), nil).Once()

		require.NoError(t, f.svc.Restore(ctx))
		assert.Equal(t, user.ID, f.svc.CurrentUser().ID)
		require.Len(t, f.changes, 1)
		assert.Equal(t, usecase.SessionEventRestored, f.changes[0].Event)
	})

	t.Run("expired session refreshed", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()

		f.store.EXPECT().Get(ctx, testSessionKey).Return(persisted(t, fixedNow.Add(-time.Minute)), nil).Once()
		f.provider.EXPECT().Refresh(ctx, "refresh-1").Return(authTokens(user, "access-2"), nil).Once()
		f.tokens.EXPECT().ParseAccessToken("access-2").Return(tokenClaims(user), nil).Once()
		f.store.EXPECT().Set(ctx, testSessionKey, mock.Anything).Return(nil).Once()

		require.NoError(t, f.svc.Restore(ctx))
		assert.Equal(t, "access-2", f.svc.Current().AccessToken)
		require.Len(t, f.changes, 1)
	})

	t.Run("expired session rejected", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()

		f.store.EXPECT().Get(ctx, testSessionKey).Return(persisted(t, fixedNow.Add(-time.Minute)), nil).Once()
		f.provider.EXPECT().Refresh(ctx, "refresh-1").Return(nil, service.ErrRefreshRejected).Once()
		f.store.EXPECT().Delete(ctx, testSessionKey).Return(nil).Once()

		require.NoError(t, f.svc.Restore(ctx))
		assert.Nil(t, f.svc.CurrentUser())
		assert.Empty(t, f.changes)
	})

	t.Run("expired session kept while backend is unreachable", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()

		f.store.EXPECT().Get(ctx, testSessionKey).Return(persisted(t, fixedNow.Add(-time.Minute)), nil).Once()
		f.provider.EXPECT().Refresh(ctx, "refresh-1").Return(nil, errors.New("no route to host")).Once()

		require.NoError(t, f.svc.Restore(ctx))
		assert.Equal(t, user.ID, f.svc.CurrentUser().ID)
	})

	t.Run("unreadable session dropped", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()

		f.store.EXPECT().Get(ctx, testSessionKey).Return([]byte("{broken"), nil).Once()
		f.store.EXPECT().Delete(ctx, testSessionKey).Return(nil).Once()

		require.NoError(t, f.svc.Restore(ctx))
		assert.Nil(t, f.svc.CurrentUser())
	})
}

func TestSessionService_SignOut(t *testing.T) {
	t.Run("backend failure still signs out locally", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()
		user := newTestUser()
		f.signedIn(user, fixedNow.Add(time.Hour))

		f.provider.EXPECT().SignOut(ctx, "access-1").Return(errors.New("timeout")).Once()
		f.store.EXPECT().Delete(ctx, testSessionKey).Return(nil).Once()

		require.NoError(t, f.svc.SignOut(ctx))
		assert.Nil(t, f.svc.CurrentUser())
		assert.Nil(t, f.svc.Current())
		require.Len(t, f.changes, 1)
		assert.Equal(t, usecase.SessionEventSignedOut, f.changes[0].Event)
		assert.Equal(t, user.ID, f.changes[0].Previous.ID)
		assert.Nil(t, f.changes[0].Current)
	})

	t.Run("anonymous is a no-op", func(t *testing.T) {
		f := newSessionFixture(t)

		require.NoError(t, f.svc.SignOut(context.Background()))
		assert.Empty(t, f.changes)
	})
}

func TestSessionService_AccessToken(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		f := newSessionFixture(t)

		_, err := f.svc.AccessToken(context.Background())
		assert.True(t, errors.Is(err, domainerrors.ErrSignInRequired))
	})

	t.Run("valid token returned as is", func(t *testing.T) {
		f := newSessionFixture(t)
		f.signedIn(newTestUser(), fixedNow.Add(time.Hour))

		token, err := f.svc.AccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "access-1", token)
	})

	t.Run("expiring token refreshed", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()
		user := newTestUser()
		f.signedIn(user, fixedNow.Add(10*time.Second))

		f.provider.EXPECT().Refresh(ctx, "refresh-1").Return(authTokens(user, "access-2"), nil).Once()
		f.tokens.EXPECT().ParseAccessToken("access-2").Return(tokenClaims(user), nil).Once()
		f.store.EXPECT().Set(ctx, testSessionKey, mock.Anything).Return(nil).Once()

		token, err := f.svc.AccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "access-2", token)
		assert.Equal(t, "refresh-access-2", f.svc.Current().RefreshToken)
		assert.Empty(t, f.changes)
	})

	t.Run("rejected refresh ends the session", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()
		f.signedIn(newTestUser(), fixedNow.Add(-time.Hour))

		f.provider.EXPECT().Refresh(ctx, "refresh-1").Return(nil, service.ErrRefreshRejected).Once()
		f.store.EXPECT().Delete(ctx, testSessionKey).Return(nil).Once()

		_, err := f.svc.AccessToken(ctx)
		assert.True(t, errors.Is(err, domainerrors.ErrSessionExpired))
		assert.Nil(t, f.svc.CurrentUser())
		require.Len(t, f.changes, 1)
		assert.Equal(t, usecase.SessionEventSignedOut, f.changes[0].Event)
	})
}

func TestSessionService_UpdateProfile(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		f := newSessionFixture(t)

		_, err := f.svc.UpdateProfile(context.Background(), &usecase.UpdateProfileInput{FullName: "Ada"})
		assert.True(t, errors.Is(err, domainerrors.ErrSignInRequired))
	})

	t.Run("blank name rejected", func(t *testing.T) {
		f := newSessionFixture(t)
		f.signedIn(newTestUser(), fixedNow.Add(time.Hour))

		_, err := f.svc.UpdateProfile(context.Background(), &usecase.UpdateProfileInput{FullName: "   "})
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	})

	t.Run("metadata updated", func(t *testing.T) {
		f := newSessionFixture(t)
		ctx := context.Background()
		user := newTestUser()
		f.signedIn(user, fixedNow.Add(time.Hour))

		updated := *user
		updated.FullName = "Ada Lovelace"
		updated.Phone = "0600000000"

		f.provider.EXPECT().
			UpdateUser(ctx, "access-1", service.UserMetadata{FullName: "Ada Lovelace", Phone: "0600000000"}).
			Return(&updated, nil).
			Once()
		f.store.EXPECT().Set(ctx, testSessionKey, mock.Anything).Return(nil).Once()

		result, err := f.svc.UpdateProfile(ctx, &usecase.UpdateProfileInput{FullName: " Ada Lovelace ", Phone: "0600000000"})
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", result.FullName)
		assert.Equal(t, "Ada Lovelace", f.svc.CurrentUser().FullName)

		require.Len(t, f.changes, 1)
		change := f.changes[0]
		assert.Equal(t, usecase.SessionEventUserUpdated, change.Event)
		assert.Equal(t, "Ada", change.Previous.FullName)
		assert.Equal(t, "Ada Lovelace", change.Current.FullName)
	})
}
