package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
	"skillswap/internal/infrastructure/ratelimit"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter middleware.Limiter) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/stats", adminHandler.Stats)

	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/:id/ban", adminHandler.BanUser)
	admin.POST("/users/:id/unban", adminHandler.UnbanUser)
	admin.DELETE("/users/:id/skills/:kind/:label", adminHandler.RemoveSkill)

	admin.POST("/broadcasts", adminHandler.Broadcast, middleware.RateLimit(limiter, ratelimit.ActionBroadcast))
	admin.GET("/broadcasts", adminHandler.ListBroadcasts)

	admin.GET("/reports/:kind", adminHandler.Report)
}
