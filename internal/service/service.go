package service

import (
	"go.uber.org/zap"

	"campus-cafe/backend/config"
	"campus-cafe/backend/internal/repository"
	"campus-cafe/backend/pkg/jwt"
	"campus-cafe/backend/pkg/redis"
)

// Service 业务服务聚合
type Service struct {
	Auth      AuthService
	User      UserService
	Table     TableService
	Task      TaskService
	Message   MessageService
	Dashboard DashboardService
	Report    ReportService
	Export    ExportService
}

// NewService 创建全部业务服务
// rdb 允许为 nil（Redis 不可用时黑名单、限流与在线统计降级）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	userSvc := NewUserService(repo, logger)
	taskSvc := NewTaskService(repo, logger)

	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:      userSvc,
		Table:     NewTableService(repo, taskSvc, logger),
		Task:      taskSvc,
		Message:   NewMessageService(repo, logger),
		Dashboard: NewDashboardService(repo, userSvc, rdb, logger),
		Report:    NewReportService(repo, logger),
		Export:    NewExportService(repo, logger),
	}
}
