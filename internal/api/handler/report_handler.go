package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/service"
	"campus-cafe/backend/pkg/response"
)

// ReportHandler 举报接口
type ReportHandler struct {
	svc    service.ReportService
	logger *zap.Logger
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(svc service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

// Create 提交举报
// POST /api/v1/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.CreateReport(c.Request.Context(), currentUserID(c), &req); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.Created(c, nil)
}

// List 举报列表（仅教职工）
// GET /api/v1/reports
func (h *ReportHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	reports, total, err := h.svc.ListReports(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKPage(c, reports, total, page.GetPage(), page.GetPageSize())
}
