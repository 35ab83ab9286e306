package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-cafe/backend/internal/model"
)

// TaskRepository 任务数据访问接口
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	// GetByID 加载任务及创建者、当前期次完成名单
	GetByID(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	// ListVisible 用户可见任务：所属桌内、未完成过、非本人创建
	ListVisible(ctx context.Context, userID string, tableIDs []string) ([]model.Task, error)
	// ListByTableAndDate 某桌指定日期发布（或重新开启）的任务
	ListByTableAndDate(ctx context.Context, tableID string, date time.Time) ([]model.Task, error)
	// ListRecurring 所有仍需重复的任务（max_repeats > 0 且周期非 none）
	ListRecurring(ctx context.Context) ([]model.Task, error)
	// AddCompletion 将用户加入当前期次完成名单（重复插入静默忽略）
	AddCompletion(ctx context.Context, taskID, userID string) error
	// ClearCompletions 清空当前期次完成名单（新一期开启时）
	ClearCompletions(ctx context.Context, taskID string) error
	CountCompletions(ctx context.Context, taskID string) (int, error)
	// ListCompleterIDs 当前期次完成者的用户 ID 列表
	ListCompleterIDs(ctx context.Context, taskID string) ([]string, error)
}

// taskRepo TaskRepository 的 GORM 实现
type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("CompletedBy").
		Preload("Table").
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) Update(ctx context.Context, task *model.Task) error {
	// 省略关联（完成名单由 AddCompletion/ClearCompletions 单独维护）
	return r.db.WithContext(ctx).Omit("CompletedBy", "Creator", "Table").Save(task).Error
}

func (r *taskRepo) ListVisible(ctx context.Context, userID string, tableIDs []string) ([]model.Task, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Table").
		Where("table_id IN ?", tableIDs).
		Where("created_by <> ?", userID).
		Where("task_id NOT IN (SELECT task_id FROM task_completions WHERE user_id = ?)", userID).
		Order("date_set DESC, created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) ListByTableAndDate(ctx context.Context, tableID string, date time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("table_id = ? AND date_set = ?", tableID, date.Format("2006-01-02")).
		Order("created_at").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) ListRecurring(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("max_repeats > 0 AND recurrence_interval <> ?", model.RecurrenceNone).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) AddCompletion(ctx context.Context, taskID, userID string) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO task_completions (task_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		taskID, userID,
	).Error
}

func (r *taskRepo) ClearCompletions(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM task_completions WHERE task_id = ?", taskID,
	).Error
}

func (r *taskRepo) CountCompletions(ctx context.Context, taskID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("task_completions").
		Where("task_id = ?", taskID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *taskRepo) ListCompleterIDs(ctx context.Context, taskID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("task_completions").
		Where("task_id = ?", taskID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
