package group

import (
	"timeclock/internal/domain"
	"timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	groups := r.Group("/admin/groups")
	groups.Use(middleware.AuthMiddleware())
	{
		groups.GET("", h.List)
		groups.POST("", middleware.RoleMiddleware(domain.RoleAdmin), h.Create)
		groups.PUT("/:groupId", middleware.RoleMiddleware(domain.RoleAdmin), h.Update)
		groups.DELETE("/:groupId", middleware.RoleMiddleware(domain.RoleAdmin), h.Delete)
	}
}
