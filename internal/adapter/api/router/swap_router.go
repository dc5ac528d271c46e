package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
	"skillswap/internal/infrastructure/ratelimit"
)

func SetupSwapRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter) {
	swapHandler := handler.GetSwapHandler()
	feedbackHandler := handler.GetFeedbackHandler()

	swaps := e.Group("/v1/swaps")
	swaps.Use(authMiddleware.Authenticate)

	swaps.POST("", swapHandler.Create, middleware.RateLimit(limiter, ratelimit.ActionCreateSwap))
	swaps.GET("", swapHandler.List)
	swaps.GET("/:id", swapHandler.Get)
	swaps.DELETE("/:id", swapHandler.Delete)

	swaps.POST("/:id/accept", swapHandler.Accept)
	swaps.POST("/:id/reject", swapHandler.Reject)
	swaps.POST("/:id/cancel", swapHandler.Cancel)
	swaps.POST("/:id/complete", swapHandler.Complete)

	swaps.POST("/:id/feedback", feedbackHandler.Create)
}
