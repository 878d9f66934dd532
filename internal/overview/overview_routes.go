package overview

import (
	"timeclock/internal/domain"
	"timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/team", middleware.RoleMiddleware(domain.RoleSupervisor, domain.RoleAdmin), h.Team)
		admin.GET("/online", middleware.RoleMiddleware(domain.RoleSupervisor, domain.RoleAdmin), h.Online)
		admin.GET("/overview", middleware.RoleMiddleware(domain.RoleSupervisor, domain.RoleAdmin), h.Period)
		admin.GET("/stats", middleware.RoleMiddleware(domain.RoleAdmin), h.Stats)
	}
}
