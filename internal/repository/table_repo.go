package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-cafe/backend/internal/model"
)

// TableRepository 咖啡桌数据访问接口
type TableRepository interface {
	Create(ctx context.Context, table *model.CafeTable) error
	GetByID(ctx context.Context, id string) (*model.CafeTable, error)
	// GetByName 按 (大学, 桌名) 查找
	GetByName(ctx context.Context, university, name string) (*model.CafeTable, error)
	// ListByUser 列出某用户所属且大学匹配的桌
	ListByUser(ctx context.Context, userID, university string) ([]model.CafeTable, error)
	ListMembers(ctx context.Context, tableID string) ([]model.User, error)
	// CountEligibleCompleters 统计桌内非教职工成员数（全桌完成奖励的分母基数）
	CountEligibleCompleters(ctx context.Context, tableID string) (int, error)
	AddMember(ctx context.Context, tableID, userID string) error
	RemoveMember(ctx context.Context, tableID, userID string) error
	IsMember(ctx context.Context, tableID, userID string) (bool, error)
}

// tableRepo TableRepository 的 GORM 实现
type tableRepo struct {
	db *gorm.DB
}

// NewTableRepo 创建 TableRepository 实例
func NewTableRepo(db *gorm.DB) TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) Create(ctx context.Context, table *model.CafeTable) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *tableRepo) GetByID(ctx context.Context, id string) (*model.CafeTable, error) {
	var table model.CafeTable
	err := r.db.WithContext(ctx).
		Where("table_id = ?", id).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepo) GetByName(ctx context.Context, university, name string) (*model.CafeTable, error) {
	var table model.CafeTable
	err := r.db.WithContext(ctx).
		Where("university = ? AND name = ?", university, name).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepo) ListByUser(ctx context.Context, userID, university string) ([]model.CafeTable, error) {
	var tables []model.CafeTable
	err := r.db.WithContext(ctx).
		Joins("JOIN table_members tm ON tm.table_id = cafe_tables.table_id").
		Where("tm.user_id = ? AND cafe_tables.university = ?", userID, university).
		Order("cafe_tables.name").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *tableRepo) ListMembers(ctx context.Context, tableID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN table_members tm ON tm.user_id = users.user_id").
		Where("tm.table_id = ?", tableID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *tableRepo) CountEligibleCompleters(ctx context.Context, tableID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN table_members tm ON tm.user_id = users.user_id").
		Where("tm.table_id = ? AND users.is_staff = ?", tableID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *tableRepo) AddMember(ctx context.Context, tableID, userID string) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO table_members (table_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		tableID, userID,
	).Error
}

func (r *tableRepo) RemoveMember(ctx context.Context, tableID, userID string) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM table_members WHERE table_id = ? AND user_id = ?",
		tableID, userID,
	).Error
}

func (r *tableRepo) IsMember(ctx context.Context, tableID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("table_members").
		Where("table_id = ? AND user_id = ?", tableID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
