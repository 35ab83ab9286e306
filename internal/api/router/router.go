package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/config"
	"campus-cafe/backend/internal/api/handler"
	"campus-cafe/backend/internal/api/middleware"
	"campus-cafe/backend/pkg/jwt"
	"campus-cafe/backend/pkg/redis"
)

// New 构建 Gin 引擎并注册全部路由
func New(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(&cfg.Server.CORS),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.JWTAuth(jwtMgr, rdb, cfg.Cafe.PresenceTTL, logger)
	messageLimit := middleware.RateLimit(
		rdb, "ratelimit:message:",
		cfg.Cafe.MessageRateLimit, cfg.Cafe.MessageRateWindow,
		logger,
	)

	v1 := r.Group("/api/v1")
	{
		// ── 认证（无需登录）──
		v1.POST("/auth/register", h.Auth.Register)
		v1.POST("/auth/login", h.Auth.Login)
		v1.POST("/auth/refresh", h.Auth.Refresh)

		// ── 认证（需登录）──
		authed := v1.Group("", auth)
		{
			authed.POST("/auth/logout", h.Auth.Logout)
			authed.POST("/auth/password", h.Auth.ChangePassword)

			// 用户
			authed.GET("/users/me", h.User.Me)
			authed.PATCH("/users/me", h.User.UpdateProfile)
			authed.POST("/users/me/study-break", h.User.StudyBreak)
			authed.GET("/users/leaderboard", h.User.Leaderboard)
			authed.GET("/users/:id", h.User.Profile)

			// 仪表盘
			authed.GET("/dashboard", h.Dashboard.Get)

			// 咖啡桌
			authed.GET("/tables", h.Table.List)
			authed.POST("/tables/join", h.Table.Join)
			authed.GET("/tables/:id", h.Table.Detail)
			authed.DELETE("/tables/:id/membership", h.Table.Leave)

			// 消息（发消息走限流）
			authed.GET("/tables/:id/messages", h.Message.List)
			authed.POST("/tables/:id/messages", messageLimit, h.Message.Post)
			authed.POST("/messages/:id/upvote", h.Message.Upvote)

			// 任务
			authed.GET("/tasks", h.Task.List)
			authed.POST("/tasks", h.Task.Create)
			authed.POST("/tasks/:id/complete", h.Task.Complete)

			// 举报
			authed.POST("/reports", h.Report.Create)
			authed.GET("/reports", middleware.StaffOnly(), h.Report.List)

			// 导出
			authed.GET("/export/leaderboard", h.Export.Leaderboard)
			authed.GET("/export/tables/:id/calendar", h.Export.TableCalendar)
		}
	}

	return r
}
