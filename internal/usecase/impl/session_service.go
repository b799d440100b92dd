package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"bistro/config"
	"bistro/internal/domain/constants"
	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	"bistro/internal/domain/service"
	"bistro/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// tokenExpirySkew treats tokens about to expire as expired.
const tokenExpirySkew = 30 * time.Second

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	provider   service.AuthProvider
	tokens     service.TokenService
	store      repository.LocalStore
	sessionKey string
	validate   *validator.Validate
	now        func() time.Time
	logger     *slog.Logger

	mu        sync.RWMutex
	session   *entity.Session
	refreshMu sync.Mutex
	notifier  notifier[usecase.SessionChange]
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	Provider service.AuthProvider
	Tokens   service.TokenService
	Store    repository.LocalStore
	Config   *config.Config
	Logger   *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	key := constants.DefaultSessionKey
	if params.Config != nil && params.Config.LocalStorage != nil && params.Config.LocalStorage.SessionKey != "" {
		key = params.Config.LocalStorage.SessionKey
	}

	return &sessionService{
		provider:   params.Provider,
		tokens:     params.Tokens,
		store:      params.Store,
		sessionKey: key,
		validate:   newValidator(),
		now:        time.Now,
		logger:     params.Logger,
	}
}

func (srv *sessionService) CurrentUser() *entity.User {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.currentUserLocked()
}

func (srv *sessionService) Current() *entity.Session {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	if srv.session == nil {
		return nil
	}
	session := *srv.session

	return &session
}

func (srv *sessionService) Subscribe(listener func(usecase.SessionChange)) func() {
	return srv.notifier.subscribe(listener)
}

// Restore loads the persisted session. Storage problems leave the app anonymous and
// are only logged. An expired session the backend could not refresh because it was
// unreachable is kept, and AccessToken retries the refresh later.
func (srv *sessionService) Restore(ctx context.Context) error {
	if srv.CurrentUser() != nil {
		return nil
	}

	data, err := srv.store.Get(ctx, srv.sessionKey)
	if errors.Is(err, repository.ErrKeyNotFound) {
		srv.logger.Debug("No persisted session")

		return nil
	}
	if err != nil {
		srv.logger.Warn("Failed to read persisted session", "error", err)

		return nil
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil || session.RefreshToken == "" {
		srv.logger.Warn("Dropping unreadable persisted session", "error", err)
		srv.deletePersisted(ctx)

		return nil
	}

	if session.Expired(srv.now().Add(tokenExpirySkew)) {
		tokens, err := srv.provider.Refresh(ctx, session.RefreshToken)
		switch {
		case errors.Is(err, service.ErrRefreshRejected):
			srv.logger.Info("Persisted session rejected by the backend", "userID", session.User.ID)
			srv.deletePersisted(ctx)

			return nil
		case err != nil:
			srv.logger.Warn("Could not refresh persisted session, keeping it", "userID", session.User.ID, "error", err)
		default:
			refreshed, err := srv.newSession(tokens)
			if err != nil {
				srv.logger.Warn("Dropping persisted session after unusable refresh", "error", err)
				srv.deletePersisted(ctx)

				return nil
			}
			session = *refreshed
			srv.persist(ctx, &session)
		}
	}

	srv.logger.Info("Session restored", "userID", session.User.ID)
	srv.setSession(&session, usecase.SessionEventRestored)

	return nil
}

// SignIn exchanges credentials for a session and makes its user current.
func (srv *sessionService) SignIn(ctx context.Context, email, password string) (*entity.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("email and password are required"), "invalid sign-in")
	}

	tokens, err := srv.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "sign-in rejected")
		}

		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to sign in"))
	}

	session, err := srv.newSession(tokens)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign in")
	}

	srv.persist(ctx, session)
	srv.setSession(session, usecase.SessionEventSignedIn)
	srv.logger.Info("User signed in", "userID", session.User.ID)

	user := session.User

	return &user, nil
}

// SignUp registers an account and signs it in when the backend hands out a session right away.
func (srv *sessionService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*entity.User, error) {
	if input == nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("sign-up form is required"), "invalid sign-up")
	}

	form := *input
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	if err := srv.validate.Struct(&form); err != nil {
		return nil, validationError(err)
	}

	tokens, err := srv.provider.SignUp(ctx, form.Email, form.Password, service.UserMetadata{FullName: form.FullName})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyRegistered) {
			return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "sign-up rejected")
		}

		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to sign up"))
	}

	if tokens == nil {
		srv.logger.Info("Account created, waiting for email confirmation", "email", form.Email)

		return nil, nil
	}

	session, err := srv.newSession(tokens)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign up")
	}

	srv.persist(ctx, session)
	srv.setSession(session, usecase.SessionEventSignedIn)
	srv.logger.Info("User signed up", "userID", session.User.ID)

	user := session.User

	return &user, nil
}

// SignOut always ends the local session, even when the backend revocation fails.
func (srv *sessionService) SignOut(ctx context.Context) error {
	session := srv.Current()
	if session == nil {
		return nil
	}

	if err := srv.provider.SignOut(ctx, session.AccessToken); err != nil {
		srv.logger.Warn("Backend sign-out failed, signing out locally", "userID", session.User.ID, "error", err)
	}

	srv.endSession(ctx)
	srv.logger.Info("User signed out", "userID", session.User.ID)

	return nil
}

// UpdateProfile replaces the account metadata of the signed-in user.
func (srv *sessionService) UpdateProfile(ctx context.Context, input *usecase.UpdateProfileInput) (*entity.User, error) {
	if srv.CurrentUser() == nil {
		return nil, errors.Wrap(domainerrors.ErrSignInRequired, "profile update requires a session")
	}
	if input == nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("profile form is required"), "invalid profile")
	}

	form := *input
	form.FullName = strings.TrimSpace(form.FullName)
	form.Phone = strings.TrimSpace(form.Phone)
	if err := srv.validate.Struct(&form); err != nil {
		return nil, validationError(err)
	}

	accessToken, err := srv.AccessToken(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	user, err := srv.provider.UpdateUser(ctx, accessToken, service.UserMetadata{FullName: form.FullName, Phone: form.Phone})
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to update profile"))
	}

	srv.mu.Lock()
	if srv.session == nil {
		srv.mu.Unlock()

		return nil, errors.Wrap(domainerrors.ErrSignInRequired, "signed out during profile update")
	}
	previous := srv.currentUserLocked()
	if user.ID == uuid.Nil {
		user.ID = previous.ID
	}
	updated := *srv.session
	updated.User = *user
	srv.session = &updated
	srv.mu.Unlock()

	srv.persist(ctx, &updated)

	current := updated.User
	srv.notifier.publish(usecase.SessionChange{
		Event:    usecase.SessionEventUserUpdated,
		Previous: previous,
		Current:  &current,
	})
	srv.logger.Info("User profile updated", "userID", current.ID)

	result := updated.User

	return &result, nil
}

// AccessToken returns the current access token, refreshing it once when it is about to expire.
// A rejected refresh ends the session.
func (srv *sessionService) AccessToken(ctx context.Context) (string, error) {
	session := srv.Current()
	if session == nil {
		return "", errors.Wrap(domainerrors.ErrSignInRequired, "no active session")
	}
	if !session.Expired(srv.now().Add(tokenExpirySkew)) {
		return session.AccessToken, nil
	}

	srv.refreshMu.Lock()
	defer srv.refreshMu.Unlock()

	session = srv.Current()
	if session == nil {
		return "", errors.Wrap(domainerrors.ErrSignInRequired, "no active session")
	}
	if !session.Expired(srv.now().Add(tokenExpirySkew)) {
		return session.AccessToken, nil
	}

	tokens, err := srv.provider.Refresh(ctx, session.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrRefreshRejected) {
			srv.logger.Info("Refresh token rejected, ending session", "userID", session.User.ID)
			srv.endSession(ctx)

			return "", errors.Wrap(domainerrors.ErrSessionExpired, "refresh rejected")
		}

		return "", domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to refresh session"))
	}

	refreshed, err := srv.newSession(tokens)
	if err != nil {
		return "", errors.Wrap(err, "failed to refresh session")
	}

	srv.persist(ctx, refreshed)

	srv.mu.Lock()
	if srv.session != nil {
		srv.session = refreshed
	}
	srv.mu.Unlock()

	return refreshed.AccessToken, nil
}

// newSession builds a session from provider tokens. The access token must decode;
// its claims fill the expiry and any identity field the provider left empty.
func (srv *sessionService) newSession(tokens *service.AuthTokens) (*entity.Session, error) {
	if tokens == nil || tokens.AccessToken == "" {
		return nil, errors.Wrap(domainerrors.ErrTokenInvalid, "backend returned no access token")
	}

	claims, err := srv.tokens.ParseAccessToken(tokens.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "backend returned an unusable access token")
	}

	user := tokens.User
	if user.ID == uuid.Nil {
		user.ID = claims.UserID
	}
	if user.Email == "" {
		user.Email = claims.Email
	}

	expiresAt := claims.ExpiresAt
	if expiresAt.IsZero() && tokens.ExpiresIn > 0 {
		expiresAt = srv.now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	}

	return &entity.Session{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    expiresAt.UTC(),
	}, nil
}

// setSession makes session current and notifies listeners outside the lock.
func (srv *sessionService) setSession(session *entity.Session, event usecase.SessionEvent) {
	srv.mu.Lock()
	previous := srv.currentUserLocked()
	srv.session = session
	current := srv.currentUserLocked()
	srv.mu.Unlock()

	srv.notifier.publish(usecase.SessionChange{Event: event, Previous: previous, Current: current})
}

// endSession drops the session in memory and in storage.
func (srv *sessionService) endSession(ctx context.Context) {
	srv.deletePersisted(ctx)

	srv.mu.Lock()
	previous := srv.currentUserLocked()
	srv.session = nil
	srv.mu.Unlock()

	if previous != nil {
		srv.notifier.publish(usecase.SessionChange{Event: usecase.SessionEventSignedOut, Previous: previous})
	}
}

func (srv *sessionService) persist(ctx context.Context, session *entity.Session) {
	data, err := json.Marshal(session)
	if err != nil {
		srv.logger.Warn("Failed to encode session", "error", err)

		return
	}

	if err := srv.store.Set(ctx, srv.sessionKey, data); err != nil {
		srv.logger.Warn("Failed to persist session", "error", err)
	}
}

func (srv *sessionService) deletePersisted(ctx context.Context) {
	if err := srv.store.Delete(ctx, srv.sessionKey); err != nil {
		srv.logger.Warn("Failed to remove persisted session", "error", err)
	}
}

func (srv *sessionService) currentUserLocked() *entity.User {
	if srv.session == nil {
		return nil
	}
	user := srv.session.User

	return &user
}
