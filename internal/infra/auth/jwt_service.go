// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"chatter/config"
	"chatter/internal/domain/service"
)

const (
	accessTokenTTL       = 60 * time.Minute
	confirmationTokenTTL = 1440 * time.Minute
)

// tokenClaims is the signed payload: subject (email), expiry and the purpose tag.
type tokenClaims struct {
	Purpose string `json:"type"`
	jwt.RegisteredClaims
}

// jwtService implements the TokenService interface using HS256-signed JWTs.
// A single process-wide secret signs both token purposes; the purpose tag is
// what prevents a confirmation token from being replayed as an access token.
type jwtService struct {
	secret []byte
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{secret: []byte(cfg.SecretKey)}, nil
}

// Issue creates a signed token for the subject, expiring after the purpose's TTL.
func (s *jwtService) Issue(subject string, purpose service.TokenPurpose) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL(purpose))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Resolve verifies the token and returns its subject. Checks run cheapest
// first: structure and signature, then expiry, then subject, then purpose.
func (s *jwtService) Resolve(tokenString string, expected service.TokenPurpose) (string, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.Wrap(service.ErrTokenExpired, err.Error())
		}

		return "", errors.Wrap(service.ErrTokenMalformed, err.Error())
	}

	if claims.Subject == "" {
		return "", errors.WithStack(service.ErrTokenMissingSubject)
	}

	if claims.Purpose != string(expected) {
		return "", errors.Wrapf(service.ErrTokenPurposeMismatch, "got %q, want %q", claims.Purpose, expected)
	}

	return claims.Subject, nil
}

// TTL returns the fixed lifetime for the given purpose.
func (s *jwtService) TTL(purpose service.TokenPurpose) time.Duration {
	if purpose == service.PurposeConfirmation {
		return confirmationTokenTTL
	}

	return accessTokenTTL
}
