// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated account as seen by the backend auth subsystem.
type User struct {
	ID       uuid.UUID `json:"id"`        // The Global Unique Identifier (GUID) for the user.
	Email    string    `json:"email"`     // The login identifier.
	FullName string    `json:"full_name"` // From the user metadata, may be empty.
	Phone    string    `json:"phone"`     // From the user metadata, may be empty.
}

// Session is the signed-in state persisted on the device between launches.
type Session struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// TokenClaims holds the fields decoded from a backend access token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
	Metadata  map[string]any
}
