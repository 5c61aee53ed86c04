// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chatter/config"
	deliverycontext "chatter/internal/delivery/context"
	"chatter/internal/domain/entity"
	domainerrors "chatter/internal/domain/errors"
	"chatter/internal/domain/repository"
	"chatter/internal/domain/service"
	"chatter/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	mailSender   service.MailSender
	taskQueue    service.TaskQueue
	baseURL      string
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	MailSender   service.MailSender
	TaskQueue    service.TaskQueue
	Config       *config.Config
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		mailSender:   params.MailSender,
		taskQueue:    params.TaskQueue,
		baseURL:      strings.TrimRight(params.Config.HTTP.BaseURL, "/"),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an unconfirmed account and schedules the confirmation email.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrEmailAlreadyRegistered
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check for existing user")
		}

		return userRepo.Create(ctx, newUser)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	confirmationToken, err := srv.tokenService.Issue(newUser.Email, service.PurposeConfirmation)
	if err != nil {
		// The account already exists; a missing confirmation email must not undo that.
		srv.log(ctx).Error("Failed to issue confirmation token", slog.Int64("userID", newUser.ID), slog.Any("error", err))

		return &usecase.RegisterOutput{User: newUser}, nil
	}

	srv.enqueueConfirmationEmail(newUser, confirmationToken)

	srv.log(ctx).Debug("Registration completed", slog.Int64("userID", newUser.ID))

	return &usecase.RegisterOutput{
		User:              newUser,
		ConfirmationToken: confirmationToken,
	}, nil
}

func (srv *userService) enqueueConfirmationEmail(user *entity.User, token string) {
	to := user.Email
	name := user.Name
	link := fmt.Sprintf("%s/user/confirm/%s", srv.baseURL, token)

	srv.taskQueue.Enqueue("confirmation-email", func(taskCtx context.Context) error {
		body := fmt.Sprintf(
			"Hi %s,\n\nPlease confirm your account by opening the link below:\n\n%s\n",
			name, link,
		)

		if err := srv.mailSender.Send(taskCtx, to, "Please confirm your account", body); err != nil {
			return errors.Wrap(err, "failed to send confirmation email")
		}

		return nil
	})
}

// Login exchanges valid credentials of a confirmed account for an access token.
// No-such-user, wrong password and unconfirmed account all fail with the same
// error so the response cannot be used to probe registered emails.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown email", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.Int64("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	if !user.Confirmed {
		srv.log(ctx).Warn("Login failed, account not confirmed", slog.Int64("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	accessToken, err := srv.tokenService.Issue(user.Email, service.PurposeAccess)
	if err != nil {
		srv.log(ctx).Error("Failed to issue access token", slog.Int64("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue access token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}

// ConfirmEmail redeems a confirmation token and marks the account as confirmed.
func (srv *userService) ConfirmEmail(ctx context.Context, token string) error {
	email, err := srv.tokenService.Resolve(token, service.PurposeConfirmation)
	if err != nil {
		srv.log(ctx).Warn("Confirmation token rejected", slog.Any("error", err))

		return mapTokenError(err)
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, findErr := userRepo.FindByEmail(ctx, email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials.WrapMessage("confirmation token for unknown account")
			}

			return errors.Wrap(findErr, "failed to find user for confirmation")
		}

		// Redeeming a token for an already confirmed account is harmless.
		if user.Confirmed {
			return nil
		}

		user.Confirmed = true

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		srv.log(ctx).Warn("Confirmation failed", slog.String("email", email), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute confirmation transaction")
	}

	srv.log(ctx).Info("Account confirmed", slog.String("email", email))

	return nil
}

// Authenticate resolves an access token to its account. Confirmation status is
// deliberately not checked here; a token can only exist for an account that was
// confirmed at login time.
func (srv *userService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	email, err := srv.tokenService.Resolve(token, service.PurposeAccess)
	if err != nil {
		return nil, mapTokenError(err)
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("access token for unknown account")
		}

		return nil, errors.Wrap(err, "failed to find user for access token")
	}

	return user, nil
}

// mapTokenError translates token resolution failures to the application error
// taxonomy. Expiry keeps its own message; every other failure collapses into
// the generic credentials error.
func mapTokenError(err error) error {
	if errors.Is(err, service.ErrTokenExpired) {
		return domainerrors.ErrTokenExpired.WrapMessage("token rejected")
	}

	return domainerrors.ErrInvalidCredentials.WrapMessage("token rejected")
}
