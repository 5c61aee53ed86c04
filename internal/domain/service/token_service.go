// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import (
	"errors"
	"time"
)

// TokenPurpose tags a token so an access token can never be accepted where a
// confirmation token is required, and vice versa.
type TokenPurpose string

const (
	// PurposeAccess marks short-lived tokens that authorize API calls.
	PurposeAccess TokenPurpose = "access"

	// PurposeConfirmation marks long-lived tokens that prove control of an
	// email address; redeemed once to flip a user's confirmed flag.
	PurposeConfirmation TokenPurpose = "confirmation"
)

// Resolution failure kinds, in the order they are checked: structure and
// signature first, then expiry, then subject presence, then purpose.
var (
	// ErrTokenExpired is returned when the current time is past the embedded expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenMalformed is returned when the signature does not verify or the
	// structure cannot be parsed.
	ErrTokenMalformed = errors.New("token malformed or unverifiable")

	// ErrTokenMissingSubject is returned when the subject claim is absent.
	ErrTokenMissingSubject = errors.New("token subject missing")

	// ErrTokenPurposeMismatch is returned when the embedded purpose differs
	// from the expected one.
	ErrTokenPurposeMismatch = errors.New("token purpose mismatch")
)

// TokenService produces and validates compact, tamper-evident, time-bounded
// assertions of identity. Tokens are self-contained and never persisted, so
// there is no server-side revocation: invariants hold only up to expiry.
type TokenService interface {
	// Issue creates a signed token asserting the subject for the given
	// purpose, expiring after the purpose's fixed TTL. No side effects.
	Issue(subject string, purpose TokenPurpose) (string, error)

	// Resolve verifies the token and returns its subject. It fails with one
	// of ErrTokenExpired, ErrTokenMalformed, ErrTokenMissingSubject or
	// ErrTokenPurposeMismatch.
	Resolve(token string, expected TokenPurpose) (string, error)

	// TTL returns the configured lifetime for the given purpose.
	TTL(purpose TokenPurpose) time.Duration
}
