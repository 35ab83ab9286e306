package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/service"
	"campus-cafe/backend/pkg/response"
)

// UserHandler 用户接口
type UserHandler struct {
	svc    service.UserService
	logger *zap.Logger
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(svc service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Me 当前用户信息
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.svc.GetCurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

// UpdateProfile 编辑个人信息（增量）
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

// Profile 查看用户主页
// GET /api/v1/users/:id
func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.svc.GetProfile(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

// StudyBreak 进入学习专注模式
// POST /api/v1/users/me/study-break
func (h *UserHandler) StudyBreak(c *gin.Context) {
	var req dto.StudyBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.StudyBreak(c.Request.Context(), currentUserID(c), req.Minutes); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Leaderboard 积分排行榜
// GET /api/v1/users/leaderboard
func (h *UserHandler) Leaderboard(c *gin.Context) {
	entries, err := h.svc.Leaderboard(c.Request.Context(), 10)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, entries)
}
