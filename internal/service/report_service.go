package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/model"
	"campus-cafe/backend/internal/repository"
)

// ── 举报模块业务错误 ──

var (
	ErrInvalidReportCategory = errors.New("举报类别不存在")
	ErrStaffOnly             = errors.New("仅教职工可执行该操作")
)

// ReportService 举报业务接口
type ReportService interface {
	// CreateReport 提交举报；只能举报自己所属的桌
	CreateReport(ctx context.Context, userID string, req *dto.CreateReportRequest) error
	// ListReports 教职工分页查看全部举报
	ListReports(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.ReportResponse, int64, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) CreateReport(ctx context.Context, userID string, req *dto.CreateReportRequest) error {
	if !model.ValidReportCategory(req.Category) {
		return ErrInvalidReportCategory
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	table, err := s.repo.Table.GetByID(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableAccessDenied
		}
		return err
	}
	if table.University != user.University {
		return ErrTableAccessDenied
	}
	isMember, err := s.repo.Table.IsMember(ctx, req.TableID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrTableAccessDenied
	}

	report := &model.Report{
		Title:     req.Title,
		Category:  req.Category,
		Detail:    req.Detail,
		TableID:   req.TableID,
		FlaggedBy: userID,
	}
	if err := s.repo.Report.Create(ctx, report); err != nil {
		s.logger.Error("创建举报失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("收到新举报",
		zap.String("category", req.Category),
		zap.String("table_id", req.TableID),
	)
	return nil
}

func (s *reportService) ListReports(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.ReportResponse, int64, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}
	if !user.IsStaff {
		return nil, 0, ErrStaffOnly
	}

	reports, total, err := s.repo.Report.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询举报列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		r := dto.ReportResponse{
			ID:        reports[i].ReportID,
			Title:     reports[i].Title,
			Category:  reports[i].Category,
			Detail:    reports[i].Detail,
			TableID:   reports[i].TableID,
			FlaggedBy: reports[i].FlaggedBy,
			CreatedAt: reports[i].CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if reports[i].Table != nil {
			r.TableName = reports[i].Table.Name
		}
		result = append(result, r)
	}
	return result, total, nil
}
