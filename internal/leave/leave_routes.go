package leave

import (
	"timeclock/internal/domain"
	"timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", h.Create)
		requests.GET("/my", h.My)
		requests.GET("/all", middleware.RoleMiddleware(domain.RoleSupervisor, domain.RoleAdmin), h.List)
		requests.GET("/pending", middleware.RoleMiddleware(domain.RoleSupervisor, domain.RoleAdmin), h.Pending)
		requests.PUT("/:requestId/review", middleware.RoleMiddleware(domain.RoleSupervisor, domain.RoleAdmin), h.Review)
		requests.DELETE("/:requestId", h.Delete)
	}
}
