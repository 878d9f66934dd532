package stamp

import (
	"timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	stamps := r.Group("/stamps")
	stamps.Use(middleware.AuthMiddleware())
	{
		stamps.POST("", h.Stamp)
		stamps.GET("/today", h.Today)
		stamps.GET("/history", h.History)
		stamps.GET("/balance/:userId", h.Balance)
	}
}
