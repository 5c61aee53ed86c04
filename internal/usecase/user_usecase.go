// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"chatter/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information together
// with the confirmation token embedded in the emailed link.
type RegisterOutput struct {
	User              *entity.User
	ConfirmationToken string
}

// LoginOutput returns the issued access token after a successful login.
type LoginOutput struct {
	AccessToken string
	TokenType   string
}

// UserUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// Register creates an unconfirmed account and schedules the confirmation
	// email. The account exists even if the email never arrives.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login exchanges valid credentials of a confirmed account for an access
	// token. Every failure mode is reported identically.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// ConfirmEmail redeems a confirmation token and flips the account to
	// confirmed. Redeeming an already confirmed account is a no-op.
	ConfirmEmail(ctx context.Context, token string) error

	// Authenticate resolves an access token to its account. Used by the
	// authentication middleware to guard protected routes.
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}
