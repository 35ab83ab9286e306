package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/pkg/jwt"
	"campus-cafe/backend/pkg/redis"
	"campus-cafe/backend/pkg/response"
)

// 上下文键名
const (
	CtxUserID     = "user_id"
	CtxUniversity = "university"
	CtxIsStaff    = "is_staff"
	CtxTokenJTI   = "token_jti"
	CtxTokenExp   = "token_exp"
)

// JWTAuth JWT 认证中间件
// 校验 Bearer Token，拒绝黑名单中的 Token，并顺带刷新在线标记
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, presenceTTL time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 40101, "缺少认证信息")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 40101, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			if err == jwt.ErrTokenExpired {
				response.Unauthorized(c, 40102, "登录已过期，请重新登录")
			} else {
				response.Unauthorized(c, 40103, "无效的认证信息")
			}
			c.Abort()
			return
		}
		if claims.TokenType != "access" {
			response.Unauthorized(c, 40103, "无效的认证信息")
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// 黑名单检查失败时放行，避免 Redis 故障导致全站不可用
				logger.Warn("黑名单检查失败", zap.Error(err))
			} else if blacklisted {
				response.Unauthorized(c, 40104, "登录已失效，请重新登录")
				c.Abort()
				return
			}

			// 刷新在线标记（尽力而为）
			if err := rdb.TouchPresence(c.Request.Context(), claims.UserID, presenceTTL); err != nil {
				logger.Warn("刷新在线标记失败", zap.Error(err))
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUniversity, claims.University)
		c.Set(CtxIsStaff, claims.IsStaff)
		c.Set(CtxTokenJTI, claims.ID)
		c.Set(CtxTokenExp, claims.ExpiresAt.Time)

		c.Next()
	}
}

// StaffOnly 限制接口仅教职工可访问
// 必须在 JWTAuth 之后挂载
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaff, exists := c.Get(CtxIsStaff)
		if !exists || !isStaff.(bool) {
			response.Forbidden(c, 40301, "仅教职工可访问")
			c.Abort()
			return
		}
		c.Next()
	}
}
