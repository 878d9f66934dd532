package workrule

import (
	"timeclock/internal/domain"
	"timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	rules := r.Group("/admin/work-rules")
	rules.Use(middleware.AuthMiddleware())
	{
		rules.GET("/:userId", h.GetForUser)
		rules.PUT("/:userId", middleware.RoleMiddleware(domain.RoleAdmin), h.Update)
	}
}
