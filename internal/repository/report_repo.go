package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-cafe/backend/internal/model"
)

// ReportRepository 举报数据访问接口
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	List(ctx context.Context, offset, limit int) ([]model.Report, int64, error)
}

// reportRepo ReportRepository 的 GORM 实现
type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepo) List(ctx context.Context, offset, limit int) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Report{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Table").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}
