package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bistro/config"
	"bistro/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) service.AuthProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Backend: &config.BackendConfig{
		AuthURL: srv.URL + "/auth/v1/",
		AnonKey: "anon-key",
		Timeout: 5 * time.Second,
	}}

	return NewHTTPAuthProvider(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestHTTPAuthProvider_SignInWithPassword(t *testing.T) {
	userID := uuid.New()

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "awa@example.com", body["email"])
		assert.Equal(t, "secret123", body["password"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token":  "access",
			"refresh_token": "refresh",
			"expires_in":    3600,
			"user": map[string]any{
				"id":            userID.String(),
				"email":         "awa@example.com",
				"user_metadata": map[string]any{"full_name": "Awa Diop", "phone": "771234567"},
			},
		})
	})

	tokens, err := provider.SignInWithPassword(context.Background(), "awa@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "refresh", tokens.RefreshToken)
	assert.Equal(t, 3600, tokens.ExpiresIn)
	assert.Equal(t, userID, tokens.User.ID)
	assert.Equal(t, "Awa Diop", tokens.User.FullName)
	assert.Equal(t, "771234567", tokens.User.Phone)
}

func TestHTTPAuthProvider_SignInWithPassword_InvalidCredentials(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
	})

	_, err := provider.SignInWithPassword(context.Background(), "awa@example.com", "wrong")

	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestHTTPAuthProvider_SignUp(t *testing.T) {
	userID := uuid.New()

	t.Run("confirmation pending returns no tokens", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/signup", r.URL.Path)

			var body struct {
				Email string               `json:"email"`
				Data  service.UserMetadata `json:"data"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Awa Diop", body.Data.FullName)

			writeJSON(t, w, http.StatusOK, map[string]any{"id": userID.String(), "email": body.Email})
		})

		tokens, err := provider.SignUp(context.Background(), "awa@example.com", "secret123", service.UserMetadata{FullName: "Awa Diop"})

		require.NoError(t, err)
		assert.Nil(t, tokens)
	})

	t.Run("auto confirmed returns a session", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"access_token":  "access",
				"refresh_token": "refresh",
				"expires_in":    3600,
				"user":          map[string]any{"id": userID.String(), "email": "awa@example.com"},
			})
		})

		tokens, err := provider.SignUp(context.Background(), "awa@example.com", "secret123", service.UserMetadata{})

		require.NoError(t, err)
		require.NotNil(t, tokens)
		assert.Equal(t, userID, tokens.User.ID)
	})

	t.Run("email already registered", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusUnprocessableEntity, map[string]any{"msg": "User already registered"})
		})

		_, err := provider.SignUp(context.Background(), "awa@example.com", "secret123", service.UserMetadata{})

		assert.True(t, errors.Is(err, service.ErrUserAlreadyRegistered))
	})
}

func TestHTTPAuthProvider_Refresh(t *testing.T) {
	t.Run("rejected refresh token", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
			writeJSON(t, w, http.StatusBadRequest, map[string]any{"error_description": "Invalid Refresh Token"})
		})

		_, err := provider.Refresh(context.Background(), "stale")

		assert.True(t, errors.Is(err, service.ErrRefreshRejected))
	})

	t.Run("server failure is not a rejection", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := provider.Refresh(context.Background(), "token")

		require.Error(t, err)
		assert.False(t, errors.Is(err, service.ErrRefreshRejected))
	})
}

func TestHTTPAuthProvider_SignOutAndUpdateUser(t *testing.T) {
	userID := uuid.New()

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-access", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		case "/auth/v1/user":
			assert.Equal(t, http.MethodPut, r.Method)

			var body struct {
				Data service.UserMetadata `json:"data"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			writeJSON(t, w, http.StatusOK, map[string]any{
				"id":            userID.String(),
				"email":         "awa@example.com",
				"user_metadata": body.Data,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	require.NoError(t, provider.SignOut(context.Background(), "user-access"))

	user, err := provider.UpdateUser(context.Background(), "user-access", service.UserMetadata{FullName: "Awa D.", Phone: "770000000"})
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "Awa D.", user.FullName)
	assert.Equal(t, "770000000", user.Phone)
}
