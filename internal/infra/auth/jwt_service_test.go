package auth

import (
	"testing"
	"time"

	"bistro/config"
	domainerrors "bistro/internal/domain/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_backend_secret_key_very_long_for_testing"

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func configWithSecret(secret string) *config.Config {
	return &config.Config{Backend: &config.BackendConfig{JWTSecret: secret}}
}

func TestJWTService_ParseAccessToken_Verified(t *testing.T) {
	userID := uuid.New()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signTestToken(t, testJWTSecret, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "awa@example.com",
		"exp":   exp.Unix(),
		"user_metadata": map[string]any{
			"full_name": "Awa Diop",
		},
	})

	svc := NewJWTService(configWithSecret(testJWTSecret))
	claims, err := svc.ParseAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "awa@example.com", claims.Email)
	assert.True(t, exp.Equal(claims.ExpiresAt))
	assert.Equal(t, "Awa Diop", claims.Metadata["full_name"])
}

func TestJWTService_ParseAccessToken_ExpiredTokenStillDecodes(t *testing.T) {
	userID := uuid.New()
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	token := signTestToken(t, testJWTSecret, jwt.MapClaims{"sub": userID.String(), "exp": exp.Unix()})

	claims, err := NewJWTService(configWithSecret(testJWTSecret)).ParseAccessToken(token)

	require.NoError(t, err)
	assert.True(t, exp.Equal(claims.ExpiresAt))
}

func TestJWTService_ParseAccessToken_WrongSecret(t *testing.T) {
	token := signTestToken(t, "another_secret", jwt.MapClaims{"sub": uuid.NewString()})

	_, err := NewJWTService(configWithSecret(testJWTSecret)).ParseAccessToken(token)

	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestJWTService_ParseAccessToken_Unverified(t *testing.T) {
	userID := uuid.New()
	token := signTestToken(t, "secret_known_only_to_the_backend", jwt.MapClaims{"sub": userID.String()})

	claims, err := NewJWTService(&config.Config{}).ParseAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestJWTService_ParseAccessToken_InvalidInput(t *testing.T) {
	svc := NewJWTService(&config.Config{})

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "subject not a uuid", token: signTestToken(t, testJWTSecret, jwt.MapClaims{"sub": "42"})},
		{name: "missing subject", token: signTestToken(t, testJWTSecret, jwt.MapClaims{"email": "x@example.com"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseAccessToken(tt.token)

			assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
		})
	}
}
