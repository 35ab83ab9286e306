package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-cafe/backend/internal/model"
)

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	// ListByTable 按时间顺序返回某桌最近 limit 条消息
	ListByTable(ctx context.Context, tableID string, limit int) ([]model.Message, error)
	HasUpvoted(ctx context.Context, messageID, userID string) (bool, error)
	// AddUpvote 记录点赞并同步计数（幂等性由 Service 层先行检查保证）
	AddUpvote(ctx context.Context, messageID, userID string) error
}

// messageRepo MessageRepository 的 GORM 实现
type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepo 创建 MessageRepository 实例
func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepo) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var message model.Message
	err := r.db.WithContext(ctx).
		Where("message_id = ?", id).
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepo) ListByTable(ctx context.Context, tableID string, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("table_id = ?", tableID).
		Order("created_at").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepo) HasUpvoted(ctx context.Context, messageID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("message_upvotes").
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *messageRepo) AddUpvote(ctx context.Context, messageID, userID string) error {
	err := r.db.WithContext(ctx).Exec(
		"INSERT INTO message_upvotes (message_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		messageID, userID,
	).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("message_id = ?", messageID).
		UpdateColumn("total_upvotes", gorm.Expr("total_upvotes + 1")).Error
}
