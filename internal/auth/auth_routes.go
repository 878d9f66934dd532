package auth

import (
	"timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")
	{
		// Login is the brute-force surface, so it gets its own tighter limit.
		authGroup.POST("/login", middleware.RateLimitByIP(5, 10), h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", middleware.AuthMiddleware(), h.Me)
		authGroup.PUT("/password", middleware.AuthMiddleware(), h.ChangePassword)
	}
}
