package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Table        TableRepository
	Task         TaskRepository
	Message      MessageRepository
	Notification NotificationRepository
	Report       ReportRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Table:        NewTableRepo(db),
		Task:         NewTaskRepo(db),
		Message:      NewMessageRepo(db),
		Notification: NewNotificationRepo(db),
		Report:       NewReportRepo(db),
	}
}

// Transact 在单个数据库事务内执行 fn，fn 内通过 txRepo 读写
// 配额的"读-改-写"与完成计分必须走这里，避免并发下重复计数；
// fn 返回错误时整个事务回滚。
// 聚合未绑定底层连接时（由接口替身直接组装）退化为直接执行。
func (r *Repository) Transact(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
