package device

import (
	"timeclock/internal/domain"
	"timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	admin := r.Group("/admin/devices")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(domain.RoleAdmin))
	{
		admin.GET("", h.List)
		admin.POST("", h.Register)
		admin.PUT("/:deviceId/assign-mode", h.SetAssignMode)
	}

	// Terminals authenticate by registered device id, not by JWT. The route
	// is rate limited at the router level.
	r.POST("/readings", h.Reading)
}
