package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/service"
	"campus-cafe/backend/pkg/response"
)

// MessageHandler 桌内聊天接口
type MessageHandler struct {
	svc    service.MessageService
	logger *zap.Logger
}

// NewMessageHandler 创建 MessageHandler
func NewMessageHandler(svc service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, logger: logger}
}

// Post 发消息
// POST /api/v1/tables/:id/messages
func (h *MessageHandler) Post(c *gin.Context) {
	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	message, err := h.svc.PostMessage(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.Created(c, message)
}

// List 桌内消息列表
// GET /api/v1/tables/:id/messages
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.svc.ListMessages(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, messages)
}

// Upvote 点赞消息
// POST /api/v1/messages/:id/upvote
func (h *MessageHandler) Upvote(c *gin.Context) {
	if err := h.svc.UpvoteMessage(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}
