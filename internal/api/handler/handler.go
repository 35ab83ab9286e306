package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/internal/api/middleware"
	"campus-cafe/backend/internal/service"
	"campus-cafe/backend/pkg/response"
)

// Handler 所有 HTTP Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Table     *TableHandler
	Task      *TaskHandler
	Message   *MessageHandler
	Dashboard *DashboardHandler
	Report    *ReportHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth, logger),
		User:      NewUserHandler(svc.User, logger),
		Table:     NewTableHandler(svc.Table, logger),
		Task:      NewTaskHandler(svc.Task, logger),
		Message:   NewMessageHandler(svc.Message, logger),
		Dashboard: NewDashboardHandler(svc.Dashboard, logger),
		Report:    NewReportHandler(svc.Report, logger),
		Export:    NewExportHandler(svc.Export, logger),
	}
}

// currentUserID 从上下文取当前用户 ID（JWTAuth 保证存在）
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

// handleServiceError 业务错误到 HTTP 响应的统一映射
// 资源不存在与无权访问统一走 Denied，避免泄露资源是否存在
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	// ── 400 参数/状态错误 ──
	case errors.Is(err, service.ErrInvalidUniversity),
		errors.Is(err, service.ErrTermsNotAccepted),
		errors.Is(err, service.ErrWrongOldPassword),
		errors.Is(err, service.ErrInvalidTaskPoints),
		errors.Is(err, service.ErrInvalidReportCategory),
		errors.Is(err, service.ErrInvalidFacebook),
		errors.Is(err, service.ErrCourseTableJoin),
		errors.Is(err, service.ErrOwnTaskComplete),
		errors.Is(err, service.ErrTaskAlreadyCompleted),
		errors.Is(err, service.ErrAlreadyUpvoted):
		response.BadRequest(c, 40001, err.Error())

	// ── 401 认证错误 ──
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 40110, err.Error())

	// ── 403 配额与角色限制 ──
	case errors.Is(err, service.ErrTaskQuotaExceeded):
		response.Forbidden(c, 40310, err.Error())
	case errors.Is(err, service.ErrCompleteQuotaExceeded):
		response.Forbidden(c, 40311, err.Error())
	case errors.Is(err, service.ErrStaffCannotComplete),
		errors.Is(err, service.ErrStaffFieldLimited),
		errors.Is(err, service.ErrStaffOnly):
		response.Forbidden(c, 40312, err.Error())

	// ── 404 统一拒绝 ──
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrTableAccessDenied):
		response.Denied(c)

	// ── 409 冲突 ──
	case errors.Is(err, service.ErrEmailExists):
		response.Error(c, 409, 40910, err.Error())

	default:
		logger.Error("未分类的业务错误",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.InternalError(c)
	}
}
