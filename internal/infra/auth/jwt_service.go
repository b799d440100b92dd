// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"bistro/config"
	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// jwtService decodes access tokens issued by the backend auth subsystem.
type jwtService struct {
	secret []byte // HMAC secret, nil when tokens are decoded without verification.
	parser *jwt.Parser
}

// NewJWTService is the constructor for jwtService.
// Expiry is reported in the claims and enforced by the session, not by the parser.
func NewJWTService(cfg *config.Config) service.TokenService {
	s := &jwtService{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	if cfg.Backend != nil && cfg.Backend.JWTSecret != "" {
		s.secret = []byte(cfg.Backend.JWTSecret)
	}

	return s
}

// ParseAccessToken returns the subject, email, expiry and user metadata of a token.
func (s *jwtService) ParseAccessToken(tokenString string) (*entity.TokenClaims, error) {
	claims := jwt.MapClaims{}

	var err error
	if s.secret != nil {
		_, err = s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}

			return s.secret, nil
		})
	} else {
		_, _, err = s.parser.ParseUnverified(tokenString, claims)
	}
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage(err.Error())
	}

	return toTokenClaims(claims)
}

func toTokenClaims(claims jwt.MapClaims) (*entity.TokenClaims, error) {
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("subject claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenInvalid, "subject is not a uuid")
	}

	result := &entity.TokenClaims{UserID: userID}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("expiration claim")
	}
	if exp != nil {
		result.ExpiresAt = exp.Time
	}

	if email, ok := claims["email"].(string); ok {
		result.Email = email
	}
	if metadata, ok := claims["user_metadata"].(map[string]any); ok {
		result.Metadata = metadata
	}

	return result, nil
}
