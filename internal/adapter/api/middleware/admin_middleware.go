package middleware

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
)

type AdminMiddleware struct {
	repo repository.Repository
}

func NewAdminMiddleware(repo repository.Repository) *AdminMiddleware {
	return &AdminMiddleware{
		repo: repo,
	}
}

// AdminOnly checks the stored role and ban flag, not the token claim.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		users, err := m.repo.GetUsers(c.Request().Context())
		if err != nil {
			return response.Error(c, errors.Internal("Failed to verify admin privileges", err))
		}

		user, found := entity.FindUser(users, uid)
		if !found || !user.IsAdmin() || user.IsBanned {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}
