package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/entity"
	"skillswap/internal/usecase"
	"skillswap/pkg/response"
)

type SwapHandler struct {
	swapUseCase *usecase.SwapUseCase
}

func NewSwapHandler(swapUseCase *usecase.SwapUseCase) *SwapHandler {
	return &SwapHandler{
		swapUseCase: swapUseCase,
	}
}

type createSwapRequest struct {
	ToUserID  string `json:"toUserId" validate:"required"`
	FromSkill string `json:"fromSkill" validate:"required,max=50"`
	ToSkill   string `json:"toSkill" validate:"required,max=50"`
	Message   string `json:"message" validate:"omitempty,max=500"`
}

func (h *SwapHandler) Create(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createSwapRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	swap, err := h.swapUseCase.Create(c.Request().Context(), uid, usecase.CreateSwapInput{
		ToUserID:  req.ToUserID,
		FromSkill: req.FromSkill,
		ToSkill:   req.ToSkill,
		Message:   req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, swap)
}

func (h *SwapHandler) List(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	swaps, err := h.swapUseCase.List(c.Request().Context(), uid, usecase.SwapFilter{
		Direction: c.QueryParam("direction"),
		Status:    entity.SwapStatus(c.QueryParam("status")),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, swaps)
}

func (h *SwapHandler) Get(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	swap, err := h.swapUseCase.Get(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, swap)
}

func (h *SwapHandler) Accept(c echo.Context) error {
	return h.transition(c, entity.SwapAccepted)
}

func (h *SwapHandler) Reject(c echo.Context) error {
	return h.transition(c, entity.SwapRejected)
}

func (h *SwapHandler) Cancel(c echo.Context) error {
	return h.transition(c, entity.SwapCancelled)
}

func (h *SwapHandler) Complete(c echo.Context) error {
	return h.transition(c, entity.SwapCompleted)
}

func (h *SwapHandler) transition(c echo.Context, to entity.SwapStatus) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	swap, err := h.swapUseCase.Transition(c.Request().Context(), uid, c.Param("id"), to)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, swap)
}

func (h *SwapHandler) Delete(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.swapUseCase.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Swap request deleted",
	})
}
