package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"chatter/config"
	"chatter/internal/domain/entity"
	domainerrors "chatter/internal/domain/errors"
	"chatter/internal/domain/service"
	"chatter/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service      usecase.UserUsecase
	userRepo     *memoryUserRepo
	hasher       *fakeHasher
	tokenService *fakeTokenService
	mailSender   *recordingMailSender
	taskQueue    *recordingTaskQueue
}

func createTestUserService(_ *testing.T) userServiceFixtures {
	userRepo := newMemoryUserRepo()
	hasher := &fakeHasher{}
	tokenService := &fakeTokenService{}
	mailSender := &recordingMailSender{}
	taskQueue := &recordingTaskQueue{}

	cfg := &config.Config{}
	cfg.HTTP.BaseURL = "http://localhost:8080"

	service := NewUserService(UserServiceParams{
		TxManager:    &fakeTxManager{factory: &fakeRepoFactory{userRepo: userRepo}},
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		MailSender:   mailSender,
		TaskQueue:    taskQueue,
		Config:       cfg,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return userServiceFixtures{
		service:      service,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
		mailSender:   mailSender,
		taskQueue:    taskQueue,
	}
}

func (f userServiceFixtures) seedUser(t *testing.T, email, password string, confirmed bool) *entity.User {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	user := &entity.User{
		Name:         "Seed User",
		Email:        email,
		PasswordHash: hash,
		Confirmed:    confirmed,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))

	return user
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotZero(t, output.User.ID)
	assert.False(t, output.User.Confirmed)
	assert.Equal(t, "confirmation:test@example.com", output.ConfirmationToken)

	// The confirmation email goes out through the deferred queue.
	require.Equal(t, []string{"confirmation-email"}, fx.taskQueue.names)
	for _, taskErr := range fx.taskQueue.runAll(ctx) {
		require.NoError(t, taskErr)
	}

	require.Len(t, fx.mailSender.sent, 1)
	assert.Equal(t, "test@example.com", fx.mailSender.sent[0].to)
	assert.Contains(t, fx.mailSender.sent[0].body, "/user/confirm/confirmation:test@example.com")
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	fx.seedUser(t, "taken@example.com", "whatever", true)

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:     "Another User",
		Email:    "taken@example.com",
		Password: "password123",
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
	assert.Empty(t, fx.taskQueue.names)
}

func TestUserService_Register_TokenIssueFailureStillCreatesAccount(t *testing.T) {
	fx := createTestUserService(t)
	fx.tokenService.issueErr = errors.New("signing unavailable")

	output, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotZero(t, output.User.ID)
	assert.Empty(t, output.ConfirmationToken)
	assert.Empty(t, fx.taskQueue.names)

	_, findErr := fx.userRepo.FindByEmail(context.Background(), "test@example.com")
	assert.NoError(t, findErr)
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)
	fx.seedUser(t, "test@example.com", "password123", true)

	output, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "access:test@example.com", output.AccessToken)
	assert.Equal(t, "bearer", output.TokenType)
}

// Every login failure mode must be indistinguishable from the outside.
func TestUserService_Login_FailuresAreIndistinguishable(t *testing.T) {
	fx := createTestUserService(t)
	fx.seedUser(t, "confirmed@example.com", "password123", true)
	fx.seedUser(t, "unconfirmed@example.com", "password123", false)

	cases := []struct {
		name  string
		input *usecase.LoginInput
	}{
		{"unknown email", &usecase.LoginInput{Email: "nobody@example.com", Password: "password123"}},
		{"wrong password", &usecase.LoginInput{Email: "confirmed@example.com", Password: "wrong"}},
		{"unconfirmed account", &usecase.LoginInput{Email: "unconfirmed@example.com", Password: "password123"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := fx.service.Login(context.Background(), tc.input)

			assert.Nil(t, output)
			require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "Could not validate credentials", appErr.Message())
		})
	}
}

func TestUserService_ConfirmEmail_Success(t *testing.T) {
	fx := createTestUserService(t)
	user := fx.seedUser(t, "test@example.com", "password123", false)

	err := fx.service.ConfirmEmail(context.Background(), "confirmation:test@example.com")
	require.NoError(t, err)

	updated, err := fx.userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, updated.Confirmed)
}

func TestUserService_ConfirmEmail_AlreadyConfirmedIsNoop(t *testing.T) {
	fx := createTestUserService(t)
	fx.seedUser(t, "test@example.com", "password123", true)

	err := fx.service.ConfirmEmail(context.Background(), "confirmation:test@example.com")
	assert.NoError(t, err)
}

func TestUserService_ConfirmEmail_RejectsAccessToken(t *testing.T) {
	fx := createTestUserService(t)
	fx.seedUser(t, "test@example.com", "password123", false)

	err := fx.service.ConfirmEmail(context.Background(), "access:test@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_ConfirmEmail_ExpiredTokenKeepsDistinctError(t *testing.T) {
	fx := createTestUserService(t)
	fx.tokenService.resolveErr = service.ErrTokenExpired

	err := fx.service.ConfirmEmail(context.Background(), "confirmation:test@example.com")
	require.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Token has expired", appErr.Message())
}

func TestUserService_ConfirmEmail_UnknownAccount(t *testing.T) {
	fx := createTestUserService(t)

	err := fx.service.ConfirmEmail(context.Background(), "confirmation:ghost@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Authenticate_Success(t *testing.T) {
	fx := createTestUserService(t)
	seeded := fx.seedUser(t, "test@example.com", "password123", true)

	user, err := fx.service.Authenticate(context.Background(), "access:test@example.com")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
}

func TestUserService_Authenticate_UnknownAccount(t *testing.T) {
	fx := createTestUserService(t)

	user, err := fx.service.Authenticate(context.Background(), "access:ghost@example.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Authenticate_WrongPurpose(t *testing.T) {
	fx := createTestUserService(t)
	fx.seedUser(t, "test@example.com", "password123", true)

	user, err := fx.service.Authenticate(context.Background(), "confirmation:test@example.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}
