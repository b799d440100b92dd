package usecase

import (
	"context"

	"bistro/internal/domain/entity"
)

// SessionEvent names what changed in the authenticated identity.
type SessionEvent string

const (
	SessionEventSignedIn    SessionEvent = "signed_in"
	SessionEventSignedOut   SessionEvent = "signed_out"
	SessionEventRestored    SessionEvent = "restored"
	SessionEventUserUpdated SessionEvent = "user_updated"
)

// SessionChange is delivered to auth listeners. Previous and Current are nil when anonymous.
type SessionChange struct {
	Event    SessionEvent
	Previous *entity.User
	Current  *entity.User
}

// AuthContext exposes the current identity and its changes.
type AuthContext interface {
	// CurrentUser returns a copy of the signed-in user, or nil when anonymous.
	CurrentUser() *entity.User

	// Subscribe registers a listener. Listeners run synchronously in registration
	// order after the change is applied.
	Subscribe(listener func(SessionChange)) (cancel func())
}

// SessionUsecase manages the signed-in session against the backend auth subsystem.
type SessionUsecase interface {
	AuthContext

	// Restore loads the persisted session, refreshing it when the access token expired.
	Restore(ctx context.Context) error

	SignIn(ctx context.Context, email, password string) (*entity.User, error)

	// SignUp registers an account. The returned user is nil when the backend
	// asks for an email confirmation before the first sign-in.
	SignUp(ctx context.Context, input *SignUpInput) (*entity.User, error)

	SignOut(ctx context.Context) error

	UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error)

	// Current returns a copy of the session, or nil when anonymous.
	Current() *entity.Session

	// AccessToken returns a valid access token, refreshing it when expired.
	AccessToken(ctx context.Context) (string, error)
}

// --- Input DTOs ---

// SignUpInput defines the data required to register an account.
type SignUpInput struct {
	FullName        string `json:"full_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UpdateProfileInput defines the account metadata that can be edited.
type UpdateProfileInput struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
}
