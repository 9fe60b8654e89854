package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"sokoni/internal/usecase"
)

type AuthMiddleware struct {
	authClient  *auth.Client
	userUseCase *usecase.UserUseCase
}

func NewAuthMiddleware(authClient *auth.Client, userUseCase *usecase.UserUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authClient:  authClient,
		userUseCase: userUseCase,
	}
}

// Authenticate verifies the Bearer token and resolves the caller's identity
// (user id plus marketplace role) into the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		idToken := parts[1]

		token, err := m.authClient.VerifyIDToken(c.Request().Context(), idToken)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		identity, err := m.userUseCase.Identity(c.Request().Context(), token.UID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "No profile for this account")
		}

		c.Set("uid", token.UID)
		c.Set("identity", identity)

		return next(c)
	}
}

func (m *AuthMiddleware) GetUIDFromToken(ctx context.Context, token string) (string, error) {
	firebaseToken, err := m.authClient.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return firebaseToken.UID, nil
}
