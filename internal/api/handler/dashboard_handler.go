package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/internal/service"
	"campus-cafe/backend/pkg/response"
)

// DashboardHandler 仪表盘接口
type DashboardHandler struct {
	svc    service.DashboardService
	logger *zap.Logger
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(svc service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// Get 仪表盘聚合数据
// GET /api/v1/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	dashboard, err := h.svc.GetDashboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, dashboard)
}
