package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/service"
	"campus-cafe/backend/pkg/response"
)

// TableHandler 咖啡桌接口
type TableHandler struct {
	svc    service.TableService
	logger *zap.Logger
}

// NewTableHandler 创建 TableHandler
func NewTableHandler(svc service.TableService, logger *zap.Logger) *TableHandler {
	return &TableHandler{svc: svc, logger: logger}
}

// List 当前用户所属的桌
// GET /api/v1/tables
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.svc.ListMyTables(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, tables)
}

// Detail 桌详情（聊天视图）
// GET /api/v1/tables/:id
func (h *TableHandler) Detail(c *gin.Context) {
	detail, err := h.svc.GetTableDetail(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, detail)
}

// Join 加入（或按需创建）桌
// POST /api/v1/tables/join
func (h *TableHandler) Join(c *gin.Context) {
	var req dto.JoinTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	table, err := h.svc.JoinTable(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, table)
}

// Leave 退出桌
// DELETE /api/v1/tables/:id/membership
func (h *TableHandler) Leave(c *gin.Context) {
	if err := h.svc.LeaveTable(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}
