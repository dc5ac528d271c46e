package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()
	feedbackHandler := handler.GetFeedbackHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("", userHandler.Browse)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.POST("/me/skills/:kind", userHandler.AddLabel)
	users.DELETE("/me/skills/:kind/:label", userHandler.RemoveLabel)
	users.GET("/:id", userHandler.GetProfile)
	users.GET("/:id/feedback", feedbackHandler.ForUser)
}
