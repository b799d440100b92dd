package service

import (
	"context"

	"bistro/internal/domain/entity"

	"github.com/pkg/errors"
)

// Errors reported by an AuthProvider.
var (
	// ErrInvalidCredentials is returned when the backend rejects an email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRefreshRejected is returned when the backend refuses a refresh token.
	ErrRefreshRejected = errors.New("refresh token rejected")
	// ErrUserAlreadyRegistered is returned by SignUp when the email is taken.
	ErrUserAlreadyRegistered = errors.New("user already registered")
)

// AuthTokens is what the auth subsystem returns for a successful sign-in or refresh.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // Seconds.
	User         entity.User
}

// UserMetadata is the free-form data attached to an account.
type UserMetadata struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// AuthProvider is the client of the backend auth subsystem.
type AuthProvider interface {
	// SignInWithPassword exchanges credentials for tokens.
	SignInWithPassword(ctx context.Context, email, password string) (*AuthTokens, error)

	// SignUp registers an account. The returned tokens are nil when the backend
	// requires an email confirmation before the first sign-in.
	SignUp(ctx context.Context, email, password string, metadata UserMetadata) (*AuthTokens, error)

	// Refresh exchanges a refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)

	// SignOut revokes the session bound to the access token.
	SignOut(ctx context.Context, accessToken string) error

	// UpdateUser replaces the account metadata and returns the updated user.
	UpdateUser(ctx context.Context, accessToken string, metadata UserMetadata) (*entity.User, error)
}
