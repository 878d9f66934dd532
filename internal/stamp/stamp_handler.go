package stamp

import (
	"encoding/json"
	"net/http"
	"time"

	"timeclock/internal/middleware"
	"timeclock/internal/shared/apperror"
	"timeclock/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("stamp.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stamp.handler")
	}
	return &Handler{service: service, logger: l}
}

// NewHandlerWithRedis enables response caching for deduplicated stamps.
func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("stamp request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Stamp(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	p := middleware.PrincipalFrom(c)

	var req StampRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http stamp validation failed", zap.Error(err))
			httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
			return
		}
	}

	actorID, err := uuid.Parse(p.UserID)
	if err != nil {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}
	actor := Actor{UserID: actorID, FirstName: p.FirstName, LastName: p.LastName}

	resp, err := h.service.Record(c.Request.Context(), actor, req.Source, nil)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Today(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	target := c.DefaultQuery("userId", p.UserID)

	resp, err := h.service.Today(c.Request.Context(), p, target)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) History(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	target := c.DefaultQuery("userId", p.UserID)

	resp, err := h.service.History(c.Request.Context(), p, target, c.Query("from"), c.Query("to"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Balance(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	target := c.Param("userId")

	resp, err := h.service.Balance(c.Request.Context(), p, target, c.Query("from"), c.Query("to"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}
