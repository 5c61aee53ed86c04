package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "chatter/internal/delivery/context"
	"chatter/internal/domain/entity"
	domainerrors "chatter/internal/domain/errors"
	"chatter/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserUsecase satisfies usecase.UserUsecase with canned responses.
type fakeUserUsecase struct {
	user    *entity.User
	authErr error
}

func (f *fakeUserUsecase) Register(context.Context, *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserUsecase) Login(context.Context, *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserUsecase) ConfirmEmail(context.Context, string) error {
	return errors.New("not implemented")
}

func (f *fakeUserUsecase) Authenticate(context.Context, string) (*entity.User, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}

	return f.user, nil
}

func runAuthMiddleware(t *testing.T, uc usecase.UserUsecase, authHeader string) (*httptest.ResponseRecorder, *entity.User) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/post/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenUser *entity.User
	next := func(c echo.Context) error {
		seenUser = deliverycontext.GetCurrentUser(c)

		return c.NoContent(http.StatusOK)
	}

	err := NewAuthMiddleware(uc).Authenticate(next)(c)
	require.NoError(t, err)

	return rec, seenUser
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	user := &entity.User{ID: 7, Email: "test@example.com"}
	rec, seenUser := runAuthMiddleware(t, &fakeUserUsecase{user: user}, "Bearer sometoken")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seenUser)
	assert.Equal(t, int64(7), seenUser.ID)
}

func TestAuthMiddleware_MissingAndMalformedHeadersLookAlike(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, seenUser := runAuthMiddleware(t, &fakeUserUsecase{}, tc.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, seenUser)
			assert.Contains(t, rec.Body.String(), "Could not validate credentials")
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	uc := &fakeUserUsecase{authErr: domainerrors.ErrInvalidCredentials.WrapMessage("token rejected")}
	rec, _ := runAuthMiddleware(t, uc, "Bearer bogus")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not validate credentials")
}

func TestAuthMiddleware_ExpiredTokenHasDistinctMessage(t *testing.T) {
	uc := &fakeUserUsecase{authErr: domainerrors.ErrTokenExpired.WrapMessage("token rejected")}
	rec, _ := runAuthMiddleware(t, uc, "Bearer stale")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}
