package middleware

import (
	"strings"

	deliverycontext "chatter/internal/delivery/context"
	"chatter/internal/delivery/http/response"
	domainerrors "chatter/internal/domain/errors"
	"chatter/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware guards routes that require an authenticated account.
type AuthMiddleware struct {
	userUC usecase.UserUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(userUC usecase.UserUsecase) *AuthMiddleware {
	return &AuthMiddleware{userUC: userUC}
}

// Authenticate validates the bearer token and stores the resolved account on
// the request context. A missing or malformed header gets the same response
// as an invalid token so the three cases cannot be told apart; only an
// expired token carries its own message.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader {
			return response.Unauthorized(c,
				domainerrors.ErrInvalidCredentials.ErrorCode(),
				domainerrors.ErrInvalidCredentials.Message(),
			)
		}

		user, err := m.userUC.Authenticate(c.Request().Context(), tokenString)
		if err != nil {
			var appErr domainerrors.AppError
			if errors.As(err, &appErr) {
				return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), nil)
			}

			return errors.Wrap(err, "failed to authenticate request")
		}

		deliverycontext.SetCurrentUser(c, user)

		return next(c)
	}
}
