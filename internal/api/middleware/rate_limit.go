package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/pkg/redis"
	"campus-cafe/backend/pkg/response"
)

// RateLimit 基于 Redis 滑动窗口的单用户限流
// 必须在 JWTAuth 之后挂载；Redis 不可用时直接放行
func RateLimit(rdb *redis.Client, keyPrefix string, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		userID := c.GetString(CtxUserID)
		if userID == "" {
			c.Next()
			return
		}

		ok, err := rdb.CheckRateLimit(c.Request.Context(), keyPrefix+userID, limit, window)
		if err != nil {
			logger.Warn("限流检查失败", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			response.Error(c, 429, 42901, "操作过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
