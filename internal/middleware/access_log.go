package middleware

import (
	"time"

	"timeclock/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog writes one structured line per completed request, tagged with the
// request id and, past auth, the caller's user id.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", contextutil.GetRequestID(ctx)),
		}
		if uid := contextutil.GetUserID(ctx); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		log.Info("request completed", fields...)
	}
}
