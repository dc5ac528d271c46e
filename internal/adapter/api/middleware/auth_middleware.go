package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/auth"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
)

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Parse(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
	repo   repository.Repository
}

func NewAuthMiddleware(tokens TokenVerifier, repo repository.Repository) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		repo:   repo,
	}
}

// Authenticate accepts a bearer token, or a token query parameter for websocket upgrades,
// and puts the user id and stored role on the context as "uid" and "role".
// Tokens of deleted or banned accounts are refused while still unexpired.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := extractToken(c)
		if err != nil {
			return response.Error(c, err)
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		users, err := m.repo.GetUsers(c.Request().Context())
		if err != nil {
			return response.Error(c, errors.Internal("Failed to verify account", err))
		}
		user, found := entity.FindUser(users, claims.Subject)
		if !found {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", nil))
		}
		if user.IsBanned {
			return response.Error(c, errors.Forbidden("Account is suspended", nil))
		}

		c.Set("uid", user.ID)
		c.Set("role", user.Role)

		return next(c)
	}
}

func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return parts[1], nil
}
