package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/response"
	"skillswap/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Name          string   `json:"name" validate:"omitempty,max=100"`
	Location      string   `json:"location" validate:"omitempty,max=100"`
	Bio           string   `json:"bio" validate:"omitempty,max=500"`
	ProfilePhoto  string   `json:"profilePhoto" validate:"omitempty,url"`
	SkillsOffered []string `json:"skillsOffered" validate:"omitempty,dive,max=50"`
	SkillsWanted  []string `json:"skillsWanted" validate:"omitempty,dive,max=50"`
	Availability  []string `json:"availability" validate:"omitempty,dive,max=50"`
	IsPublic      *bool    `json:"isPublic"`
}

type labelRequest struct {
	Label string `json:"label" validate:"required,max=50"`
}

func (h *UserHandler) Browse(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	users, err := h.userUseCase.Browse(c.Request().Context(), uid, usecase.BrowseFilter{
		Query:    c.QueryParam("q"),
		Location: c.QueryParam("location"),
		Skill:    c.QueryParam("skill"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	params := utils.GetPaginationParams(c)
	start, end := params.Window(len(users))

	return response.Paginated(c, users[start:end], int64(len(users)), params.Page, params.PageSize)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		Name:          req.Name,
		Location:      req.Location,
		Bio:           req.Bio,
		ProfilePhoto:  req.ProfilePhoto,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
		Availability:  req.Availability,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) AddLabel(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req labelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.AddLabel(c.Request().Context(), uid, c.Param("kind"), req.Label)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) RemoveLabel(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.RemoveLabel(c.Request().Context(), uid, c.Param("kind"), c.Param("label"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
