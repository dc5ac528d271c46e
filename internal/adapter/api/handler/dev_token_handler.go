package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
)

// DevTokenHandler hands out tokens for the first active account of a role. Development only.
type DevTokenHandler struct {
	tokens usecase.TokenIssuer
	repo   repository.Repository
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(tokens usecase.TokenIssuer, repo repository.Repository) *DevTokenHandler {
	return &DevTokenHandler{
		tokens: tokens,
		repo:   repo,
	}
}

func SetupDevTokenHandler(tokens usecase.TokenIssuer, repo repository.Repository) {
	devTokenHandler = NewDevTokenHandler(tokens, repo)
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

func (h *DevTokenHandler) GenerateUserToken(c echo.Context) error {
	return h.generate(c, entity.RoleUser)
}

func (h *DevTokenHandler) GenerateAdminToken(c echo.Context) error {
	return h.generate(c, entity.RoleAdmin)
}

func (h *DevTokenHandler) generate(c echo.Context, role string) error {
	users, err := h.repo.GetUsers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	for _, u := range users {
		if u.Role != role || u.IsBanned {
			continue
		}
		token, err := h.tokens.Sign(u.ID, u.Email, u.Role)
		if err != nil {
			return response.Error(c, errors.Internal("Failed to generate token", err))
		}
		return response.Success(c, usecase.AuthResult{User: u.Public(), Token: token})
	}

	return response.Error(c, errors.NotFound("Account with role "+role, nil))
}
