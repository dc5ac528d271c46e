package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

// SetupChatRouter mounts the per-swap transcript. Posting is throttled inside the chat use case.
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chat := e.Group("/v1/swaps/:id/messages")
	chat.Use(authMiddleware.Authenticate)

	chat.GET("", chatHandler.GetMessages)
	chat.POST("", chatHandler.SendMessage)
}
