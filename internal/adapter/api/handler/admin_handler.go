package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/response"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

type broadcastRequest struct {
	Content     string   `json:"content" validate:"required,max=2000"`
	Type        string   `json:"type" validate:"omitempty,max=30"`
	TargetUsers []string `json:"targetUsers"`
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminUseCase.Stats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminUseCase.Users(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

func (h *AdminHandler) BanUser(c echo.Context) error {
	user, err := h.adminUseCase.Ban(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *AdminHandler) UnbanUser(c echo.Context) error {
	user, err := h.adminUseCase.Unban(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *AdminHandler) RemoveSkill(c echo.Context) error {
	user, err := h.adminUseCase.RemoveSkill(c.Request().Context(), c.Param("id"), c.Param("kind"), c.Param("label"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *AdminHandler) Broadcast(c echo.Context) error {
	var req broadcastRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	msg, err := h.adminUseCase.Broadcast(c.Request().Context(), usecase.BroadcastInput{
		Content:     req.Content,
		Type:        req.Type,
		TargetUsers: req.TargetUsers,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, msg)
}

func (h *AdminHandler) ListBroadcasts(c echo.Context) error {
	messages, err := h.adminUseCase.Broadcasts(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// Report answers with a download link when the export was uploaded, otherwise with the CSV itself.
func (h *AdminHandler) Report(c echo.Context) error {
	report, err := h.adminUseCase.Report(c.Request().Context(), c.Param("kind"))
	if err != nil {
		return response.Error(c, err)
	}

	if report.URL != "" {
		return response.Success(c, report)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Kind+".csv"))
	return c.Blob(http.StatusOK, "text/csv", report.Data)
}
