package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/model"
	"campus-cafe/backend/internal/repository"
)

// ── 任务模块业务错误 ──

var (
	ErrTaskNotFound          = errors.New("任务不存在")
	ErrTableAccessDenied     = errors.New("无权访问该咖啡桌")
	ErrInvalidTaskPoints     = errors.New("任务分值不在允许范围内")
	ErrTaskQuotaExceeded     = errors.New("今日发布任务数已达上限")
	ErrCompleteQuotaExceeded = errors.New("今日完成学生任务数已达上限")
	ErrStaffCannotComplete   = errors.New("教职工不能完成任务")
	ErrOwnTaskComplete       = errors.New("不能完成自己发布的任务")
	ErrTaskAlreadyCompleted  = errors.New("已完成过该任务")
)

// TaskService 任务与积分引擎业务接口
//
// 设计说明：
//   - 任务的创建配额、完成计分、全桌奖励与重复推进全部收口在本服务，
//     其他模块不得直接改写积分、完成名单或重复状态字段
//   - 配额的"读-改-写"与计分在单个数据库事务内执行
//   - 重复任务的推进由读任务的请求顺带触发（无后台调度线程）
type TaskService interface {
	CreateTask(ctx context.Context, userID string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	CompleteTask(ctx context.Context, userID, taskID string) (*dto.CompleteTaskResponse, error)
	// ListVisibleTasks 学生视角的待办任务列表（先推进到期的重复任务）
	ListVisibleTasks(ctx context.Context, userID string) ([]dto.TaskResponse, error)
	// AdvanceRecurringTasks 批量推进到期的重复任务
	AdvanceRecurringTasks(ctx context.Context) error
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

// ────────────────────── CreateTask ──────────────────────

func (s *taskService) CreateTask(ctx context.Context, userID string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}

	// 分值枚举校验：非教职工只能用 1..5，无论前端呈现什么选项都在这里强制
	if !model.ValidTaskPoints(req.Points, user.IsStaff) {
		return nil, ErrInvalidTaskPoints
	}

	// 只能向自己所属且大学一致的桌发布任务
	table, err := s.repo.Table.GetByID(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableAccessDenied
		}
		s.logger.Error("查询咖啡桌失败", zap.String("id", req.TableID), zap.Error(err))
		return nil, err
	}
	if table.University != user.University {
		return nil, ErrTableAccessDenied
	}
	isMember, err := s.repo.Table.IsMember(ctx, table.TableID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrTableAccessDenied
	}

	today := model.Today()

	// 发布配额（仅学生受限）：先按存储的重置日期尝试清零，再检查
	if !user.IsStaff {
		user.ResetSetQuotaIfDue(today)
		if user.TasksSetToday >= model.DailySetLimit {
			return nil, ErrTaskQuotaExceeded
		}
	}

	interval := model.RecurrenceInterval(req.RecurrenceInterval)
	if interval == "" {
		interval = model.RecurrenceNone
	}

	task := &model.Task{
		TableID:            table.TableID,
		CreatedBy:          userID,
		Name:               req.Name,
		Content:            req.Content,
		Points:             req.Points,
		DateSet:            today,
		RecurrenceInterval: interval,
		NoOfRepeats:        0,
		MaxRepeats:         req.MaxRepeats,
	}

	user.RecordTaskSet(today)

	// 任务创建 + 配额计数 + 通知在同一事务中落库
	err = s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Task.Create(ctx, task); err != nil {
			s.logger.Error("创建任务失败", zap.Error(err))
			return err
		}
		if err := txRepo.User.Update(ctx, user); err != nil {
			s.logger.Error("更新发布配额失败", zap.String("id", userID), zap.Error(err))
			return err
		}

		preview := fmt.Sprintf("%s 发布了新任务「%s」，快来看看吧！", user.FirstName, task.Name)
		notification := &model.Notification{
			TableID:     &table.TableID,
			Type:        model.NotificationTask,
			TextPreview: model.TruncatePreview(preview),
		}
		if err := txRepo.Notification.Create(ctx, notification); err != nil {
			s.logger.Error("创建任务通知失败", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	task.Creator = user
	task.Table = table
	resp := buildTaskResponse(ctx, s.repo, s.logger, task)
	return &resp, nil
}

// ────────────────────── CompleteTask ──────────────────────

func (s *taskService) CompleteTask(ctx context.Context, userID, taskID string) (*dto.CompleteTaskResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 只有学生完成任务；教职工走发布流程
	if user.IsStaff {
		return nil, ErrStaffCannotComplete
	}

	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("id", taskID), zap.Error(err))
		return nil, err
	}
	if task.Creator == nil {
		return nil, fmt.Errorf("任务 %s 缺少创建者信息", taskID)
	}

	// 任务所在桌必须可见（同大学 + 成员）
	if task.Table == nil || task.Table.University != user.University {
		return nil, ErrTableAccessDenied
	}
	isMember, err := s.repo.Table.IsMember(ctx, task.TableID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrTableAccessDenied
	}

	// 幂等保护：同一期次重复完成不再计分
	if task.IsCompletedBy(userID) {
		return nil, ErrTaskAlreadyCompleted
	}

	// 创建者不能完成自己的任务（教职工发布的任务不存在此情形：上面已拦截教职工）
	if task.CreatedBy == userID {
		return nil, ErrOwnTaskComplete
	}

	today := model.Today()
	staffAuthored := task.Creator.IsStaff

	// 学生任务的完成配额：先按重置日期清零再检查；教职工任务不受配额限制
	if !staffAuthored {
		user.ResetCompleteQuotaIfDue(today)
		if user.StudentTasksCompleted >= model.DailyCompleteLimit {
			return nil, ErrCompleteQuotaExceeded
		}
	}

	// ── 计分事务 ──
	bonusIssued := false
	err = s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Task.AddCompletion(ctx, taskID, userID); err != nil {
			s.logger.Error("记录任务完成失败", zap.Error(err))
			return err
		}

		user.Points += task.Points
		if !staffAuthored {
			user.RecordStudentTaskCompleted(today)
		}
		if err := txRepo.User.Update(ctx, user); err != nil {
			s.logger.Error("更新用户积分失败", zap.String("id", userID), zap.Error(err))
			return err
		}

		// 全桌完成奖励：所有有资格的成员都完成时，每位完成者 +2
		// bonus_awarded 标记保证同一期次只发放一次
		current, total, err := completionProgress(ctx, txRepo, task)
		if err != nil {
			return err
		}
		if !task.BonusAwarded && total > 0 && current == total {
			completerIDs, err := txRepo.Task.ListCompleterIDs(ctx, taskID)
			if err != nil {
				return err
			}
			for _, completerID := range completerIDs {
				if err := txRepo.User.AddPoints(ctx, completerID, model.GroupBonusPoints); err != nil {
					s.logger.Error("发放全桌奖励失败", zap.String("id", completerID), zap.Error(err))
					return err
				}
			}
			task.BonusAwarded = true
			bonusIssued = true
			if contains(completerIDs, userID) {
				user.Points += model.GroupBonusPoints
			}
		}

		// 每次完成事件都推进下一期到期日，与 max_repeats 是否达到无关
		task.RescheduleRecurrence()
		if err := txRepo.Task.Update(ctx, task); err != nil {
			s.logger.Error("更新任务失败", zap.String("id", taskID), zap.Error(err))
			return err
		}

		preview := fmt.Sprintf("有人完成了「%s」，获得了 %d 积分！", task.Name, task.Points)
		notification := &model.Notification{
			TableID:     &task.TableID,
			Type:        model.NotificationTask,
			TextPreview: model.TruncatePreview(preview),
		}
		if err := txRepo.Notification.Create(ctx, notification); err != nil {
			s.logger.Error("创建完成通知失败", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.CompleteTaskResponse{
		Awarded:      true,
		PointsEarned: task.Points,
		BonusIssued:  bonusIssued,
		TotalPoints:  user.Points,
	}, nil
}

// ────────────────────── ListVisibleTasks ──────────────────────

func (s *taskService) ListVisibleTasks(ctx context.Context, userID string) ([]dto.TaskResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 任务列表是学生视角；教职工由 Handler 引导回仪表盘
	if user.IsStaff {
		return nil, ErrStaffCannotComplete
	}

	// 顺带推进到期的重复任务（请求驱动，无后台调度）
	if err := s.AdvanceRecurringTasks(ctx); err != nil {
		s.logger.Warn("推进重复任务失败", zap.Error(err))
	}

	tables, err := s.repo.Table.ListByUser(ctx, userID, user.University)
	if err != nil {
		s.logger.Error("查询用户咖啡桌失败", zap.Error(err))
		return nil, err
	}
	tableIDs := make([]string, 0, len(tables))
	for _, t := range tables {
		tableIDs = append(tableIDs, t.TableID)
	}

	tasks, err := s.repo.Task.ListVisible(ctx, userID, tableIDs)
	if err != nil {
		s.logger.Error("查询可见任务失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, buildTaskResponse(ctx, s.repo, s.logger, &tasks[i]))
	}
	return result, nil
}

// ────────────────────── AdvanceRecurringTasks ──────────────────────

func (s *taskService) AdvanceRecurringTasks(ctx context.Context) error {
	tasks, err := s.repo.Task.ListRecurring(ctx)
	if err != nil {
		return err
	}

	today := model.Today()
	for i := range tasks {
		task := &tasks[i]
		if !task.DueForRecurrence(today) {
			continue
		}

		// 新一期：清空完成名单、重置奖励标记、计数加一、重新到期
		err := s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
			if err := txRepo.Task.ClearCompletions(ctx, task.TaskID); err != nil {
				s.logger.Error("清空完成名单失败", zap.String("id", task.TaskID), zap.Error(err))
				return err
			}
			task.AdvanceOccurrence(today)
			if err := txRepo.Task.Update(ctx, task); err != nil {
				s.logger.Error("推进重复任务失败", zap.String("id", task.TaskID), zap.Error(err))
				return err
			}
			return nil
		})
		if err != nil {
			return err
		}

		s.logger.Info("重复任务已重新开启",
			zap.String("task_id", task.TaskID),
			zap.Int("no_of_repeats", task.NoOfRepeats),
		)
	}

	return nil
}

// ── 内部辅助方法 ──

// completionProgress 计算任务完成进度 (当前完成人数, 可完成人数)
// 可完成人数 = 桌内非教职工成员数；创建者为桌内非教职工成员时再减一
// （创建者不在可完成名单内）
func completionProgress(ctx context.Context, repo *repository.Repository, task *model.Task) (int, int, error) {
	current, err := repo.Task.CountCompletions(ctx, task.TaskID)
	if err != nil {
		return 0, 0, err
	}

	total, err := repo.Table.CountEligibleCompleters(ctx, task.TableID)
	if err != nil {
		return 0, 0, err
	}

	if task.Creator != nil && !task.Creator.IsStaff {
		creatorIsMember, err := repo.Table.IsMember(ctx, task.TableID, task.CreatedBy)
		if err != nil {
			return 0, 0, err
		}
		if creatorIsMember {
			total--
		}
	}

	return current, total, nil
}

// buildTaskResponse 组装任务响应（含完成进度），供任务列表与桌详情共用
func buildTaskResponse(ctx context.Context, repo *repository.Repository, logger *zap.Logger, task *model.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:                 task.TaskID,
		TableID:            task.TableID,
		Name:               task.Name,
		Content:            task.Content,
		Points:             task.Points,
		CreatorID:          task.CreatedBy,
		DateSet:            task.DateSet.Format("2006-01-02"),
		RecurrenceInterval: string(task.RecurrenceInterval),
		NoOfRepeats:        task.NoOfRepeats,
		MaxRepeats:         task.MaxRepeats,
	}
	if task.Table != nil {
		resp.TableName = task.Table.Name
	}
	if task.Creator != nil {
		resp.CreatorName = task.Creator.FullName()
		resp.CreatorIsStaff = task.Creator.IsStaff
	}

	current, total, err := completionProgress(ctx, repo, task)
	if err != nil {
		logger.Warn("计算任务完成进度失败", zap.String("id", task.TaskID), zap.Error(err))
		return resp
	}
	resp.CompletionsCurrent = current
	resp.CompletionsTotal = total
	return resp
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
