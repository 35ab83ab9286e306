package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/internal/service"
)

// ExportHandler 导出接口
type ExportHandler struct {
	svc    service.ExportService
	logger *zap.Logger
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(svc service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger}
}

// Leaderboard 导出排行榜（xlsx）
// GET /api/v1/export/leaderboard
func (h *ExportHandler) Leaderboard(c *gin.Context) {
	data, filename, err := h.svc.ExportLeaderboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// TableCalendar 导出桌任务日历（ics）
// GET /api/v1/export/tables/:id/calendar
func (h *ExportHandler) TableCalendar(c *gin.Context) {
	data, filename, err := h.svc.ExportTableCalendar(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
