package app

import (
	"net/http"

	"timeclock/internal/auth"
	"timeclock/internal/device"
	"timeclock/internal/group"
	"timeclock/internal/leave"
	"timeclock/internal/middleware"
	"timeclock/internal/overview"
	"timeclock/internal/stamp"
	"timeclock/internal/user"
	"timeclock/internal/workrule"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func NewRouter(reg *Registry, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(zap.L()))
	r.Use(middleware.RateLimitByIP(50, 100))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	if rdb != nil {
		api.Use(middleware.Idempotency(rdb))
	}

	auth.RegisterRoutes(api, reg.Auth)
	user.RegisterRoutes(api, reg.User)
	group.RegisterRoutes(api, reg.Group)
	workrule.RegisterRoutes(api, reg.WorkRule)
	stamp.RegisterRoutes(api, reg.Stamp)
	leave.RegisterRoutes(api, reg.Leave)
	device.RegisterRoutes(api, reg.Device)
	overview.RegisterRoutes(api, reg.Overview)

	return r
}
