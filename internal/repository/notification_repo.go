package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-cafe/backend/internal/model"
)

// NotificationRepository 通知数据访问接口
// 通知只追加：接口不提供更新与删除
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	// ListByTables 按创建时间倒序返回相关桌的最近 limit 条通知
	ListByTables(ctx context.Context, tableIDs []string, limit int) ([]model.Notification, error)
}

// notificationRepo NotificationRepository 的 GORM 实现
type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepo) ListByTables(ctx context.Context, tableIDs []string, limit int) ([]model.Notification, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("table_id IN ?", tableIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
