package user

import (
	"timeclock/internal/domain"
	"timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	users := r.Group("/admin/users")
	users.Use(middleware.AuthMiddleware())
	{
		// Supervisors see their direct reports here, workers only themselves.
		users.GET("", h.List)
		users.POST("", middleware.RoleMiddleware(domain.RoleAdmin), h.Create)
		users.PUT("/:userId", middleware.RoleMiddleware(domain.RoleAdmin), h.Update)
		users.DELETE("/:userId", middleware.RoleMiddleware(domain.RoleAdmin), h.Deactivate)
	}
}
