package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/service"
	"campus-cafe/backend/pkg/response"
)

// TaskHandler 任务接口
type TaskHandler struct {
	svc    service.TaskService
	logger *zap.Logger
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(svc service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// Create 发布任务
// POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	task, err := h.svc.CreateTask(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.Created(c, task)
}

// Complete 完成任务并计分
// POST /api/v1/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	result, err := h.svc.CompleteTask(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// List 当前用户可完成的任务
// GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.svc.ListVisibleTasks(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, tasks)
}
