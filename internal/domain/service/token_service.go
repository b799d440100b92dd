package service

import (
	"bistro/internal/domain/entity"
)

// TokenService decodes access tokens issued by the backend auth subsystem.
type TokenService interface {
	// ParseAccessToken returns the claims of an access token. The signature is
	// verified when a secret is configured.
	ParseAccessToken(token string) (*entity.TokenClaims, error)
}
